package company

import (
	"context"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Company struct {
	ID          common.UUID `json:"id"`
	Name        string      `json:"name"`
	Website     string      `json:"website,omitempty"`
	Industry    string      `json:"industry,omitempty"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, c Company) (*Company, error)
	Update(ctx context.Context, c Company) (*Company, error)
	GetByID(ctx context.Context, id common.UUID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Delete(ctx context.Context, id common.UUID) error
	CountDrives(ctx context.Context, id common.UUID) (int, error)
}
