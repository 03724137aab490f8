package student

import (
	"context"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Repository interface {
	Create(ctx context.Context, profile Profile) (*Profile, error)
	GetByID(ctx context.Context, id common.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*Profile, error)
	Update(ctx context.Context, id common.UUID, update Update) (*Profile, error)
	SetResumeURL(ctx context.Context, id common.UUID, resumeURL string) error
	SetApproval(ctx context.Context, id common.UUID, approved bool, approvedBy *common.UUID, approvedAt *time.Time) error
	List(ctx context.Context, filter ListFilter) ([]Summary, error)
}

// HODRepository resolves the department an HOD account administers.
type HODRepository interface {
	GetByUserID(ctx context.Context, userID common.UUID) (*HOD, error)
	Create(ctx context.Context, hod HOD) (*HOD, error)
}

type HOD struct {
	ID           common.UUID `json:"id"`
	UserID       common.UUID `json:"user_id"`
	DepartmentID common.UUID `json:"department_id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
}
