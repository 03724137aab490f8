package student

import (
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

// Profile is the placement-facing view of a student. IsApproved is
// owned by the department HOD; everything else is edited by the
// student. A profile is never deleted, only updated.
type Profile struct {
	ID               common.UUID  `json:"id"`
	UserID           common.UUID  `json:"user_id"`
	DepartmentID     common.UUID  `json:"department_id"`
	DepartmentName   string       `json:"department_name,omitempty"`
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	EnrollmentNumber string       `json:"enrollment_number"`
	Phone            string       `json:"phone,omitempty"`
	CGPA             float64      `json:"cgpa"`
	HasCGPA          bool         `json:"has_cgpa"`
	Backlogs         int          `json:"backlogs"`
	Skills           []string     `json:"skills,omitempty"`
	Bio              string       `json:"bio,omitempty"`
	ResumeURL        string       `json:"resume_url,omitempty"`
	IsApproved       bool         `json:"is_approved"`
	ApprovedBy       *common.UUID `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time   `json:"approved_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Update carries the student-editable fields; nil means "leave as is".
type Update struct {
	FirstName *string
	LastName  *string
	Phone     *string
	CGPA      *float64
	Backlogs  *int
	Skills    []string
	Bio       *string
}

// ListFilter narrows HOD listings.
type ListFilter struct {
	DepartmentID common.UUID
	Approved     *bool
	Search       string
}

// Summary decorates a profile with application counts for HOD tables.
type Summary struct {
	Profile
	ApplicationCount int `json:"application_count"`
	Placements       int `json:"placements"`
}
