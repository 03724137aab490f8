package drive

import (
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(status Status) bool {
	switch status {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminalStatus reports whether a drive stopped accepting
// applications and promotions for good.
func IsTerminalStatus(status Status) bool {
	return status == StatusCompleted || status == StatusCancelled
}

type RoundType string

const (
	RoundAptitude  RoundType = "aptitude"
	RoundTechnical RoundType = "technical"
	RoundCoding    RoundType = "coding"
	RoundHR        RoundType = "hr"
	RoundOther     RoundType = "other"
)

func IsValidRoundType(roundType RoundType) bool {
	switch roundType {
	case RoundAptitude, RoundTechnical, RoundCoding, RoundHR, RoundOther:
		return true
	default:
		return false
	}
}

// Round is one ordered stage of a drive's pipeline. Rounds are owned by
// their drive and numbered 1..TotalRounds without gaps.
type Round struct {
	ID          common.UUID `json:"id"`
	DriveID     common.UUID `json:"drive_id"`
	RoundNumber int         `json:"round_number"`
	RoundName   string      `json:"round_name"`
	RoundType   RoundType   `json:"round_type"`
	RoundDate   *time.Time  `json:"round_date,omitempty"`
}

type Drive struct {
	ID                  common.UUID `json:"id"`
	CompanyID           common.UUID `json:"company_id"`
	CompanyName         string      `json:"company_name,omitempty"`
	JobRole             string      `json:"job_role"`
	JobDescription      string      `json:"job_description"`
	PackageCTC          float64     `json:"package_ctc"`
	Location            string      `json:"location"`
	JobType             string      `json:"job_type"`
	MinCGPA             float64     `json:"min_cgpa"`
	MaxBacklogs         int         `json:"max_backlogs"`
	ApplicationDeadline time.Time   `json:"application_deadline"`
	Status              Status      `json:"status"`
	TotalRounds         int         `json:"total_rounds"`
	Rounds              []Round     `json:"rounds,omitempty"`
	CreatedBy           common.UUID `json:"created_by"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type ListFilter struct {
	Status    Status
	CompanyID common.UUID
}

// Patch carries optional edits; nil leaves a field untouched. The
// criteria fields are only honored while the drive is a draft.
type Patch struct {
	JobRole             *string
	JobDescription      *string
	PackageCTC          *float64
	Location            *string
	MinCGPA             *float64
	MaxBacklogs         *int
	ApplicationDeadline *time.Time
	Status              *Status
}

func (p Patch) HasCriteriaChange() bool {
	return p.JobRole != nil || p.PackageCTC != nil || p.MinCGPA != nil ||
		p.MaxBacklogs != nil || p.ApplicationDeadline != nil
}
