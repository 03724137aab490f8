package application

import (
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusOnHold      Status = "on_hold"
	StatusSelected    Status = "selected"
	StatusRejected    Status = "rejected"
)

func IsValidStatus(status Status) bool {
	switch status {
	case StatusApplied, StatusShortlisted, StatusOnHold, StatusSelected, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the candidacy. A terminal
// application never changes again.
func IsTerminal(status Status) bool {
	return status == StatusSelected || status == StatusRejected
}

// Application joins one student to one drive. CurrentRound is 0 until
// the candidate enters the pipeline and never exceeds the drive's
// TotalRounds; it freezes at its last value on rejection.
type Application struct {
	ID           common.UUID `json:"id"`
	StudentID    common.UUID `json:"student_id"`
	DriveID      common.UUID `json:"drive_id"`
	Status       Status      `json:"status"`
	CurrentRound int         `json:"current_round"`
	Feedback     string      `json:"feedback,omitempty"`
	AppliedAt    time.Time   `json:"applied_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// BulkResult reports a batch update: per-id failures are data, the
// batch itself never fails as a whole.
type BulkResult struct {
	Updated int           `json:"updated"`
	Failed  []BulkFailure `json:"failed"`
}

type BulkFailure struct {
	ID     common.UUID `json:"id"`
	Reason string      `json:"reason"`
}

type ListFilter struct {
	DriveID   common.UUID
	StudentID common.UUID
	Status    Status
}
