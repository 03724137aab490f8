package drive

import (
	"context"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Repository interface {
	// Create persists the drive together with its rounds.
	Create(ctx context.Context, d Drive) (*Drive, error)
	Update(ctx context.Context, d Drive) (*Drive, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) error
	// GetByID loads the drive with its rounds ordered by round_number.
	GetByID(ctx context.Context, id common.UUID) (*Drive, error)
	List(ctx context.Context, filter ListFilter) ([]Drive, error)
	ListActive(ctx context.Context) ([]Drive, error)
	Delete(ctx context.Context, id common.UUID) error
	CountApplications(ctx context.Context, id common.UUID) (int, error)
}
