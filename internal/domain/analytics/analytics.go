package analytics

import (
	"context"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

// Event is an append-only audit record; writers ignore failures so the
// main operation never depends on analytics.
type Event struct {
	Name      string            `json:"name"`
	UserID    *common.UUID      `json:"user_id,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, event Event) error
}

// CompanyLeader is one row of the "most applied to" leaderboard.
type CompanyLeader struct {
	CompanyName      string `json:"company_name"`
	ApplicationCount int    `json:"application_count"`
}

type DepartmentPlacement struct {
	DepartmentName string `json:"department_name"`
	PlacedCount    int    `json:"placed_count"`
}

type Overview struct {
	TotalCompanies    int `json:"total_companies"`
	TotalDrives       int `json:"total_drives"`
	ActiveDrives      int `json:"active_drives"`
	CompletedDrives   int `json:"completed_drives"`
	TotalApplications int `json:"total_applications"`
	StudentsPlaced    int `json:"students_placed"`
	TotalStudents     int `json:"total_students"`
	ApprovedStudents  int `json:"approved_students"`
}

// StatsRepository serves the TPO dashboards with SQL aggregates.
type StatsRepository interface {
	Overview(ctx context.Context) (*Overview, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	TopCompanies(ctx context.Context, limit int) ([]CompanyLeader, error)
	DepartmentPlacements(ctx context.Context) ([]DepartmentPlacement, error)
	DepartmentOverview(ctx context.Context, departmentID common.UUID) (map[string]int, error)
}
