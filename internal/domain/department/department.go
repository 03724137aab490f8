package department

import (
	"context"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Department struct {
	ID   common.UUID `json:"id"`
	Name string      `json:"name"`
	Code string      `json:"code"`
}

type Repository interface {
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id common.UUID) (*Department, error)
}
