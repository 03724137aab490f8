package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/company"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
)

type DriveService struct {
	repo         drive.Repository
	companies    company.Repository
	applications application.Repository
	analytics    analytics.Repository
}

func NewDriveService(repo drive.Repository, companies company.Repository, applications application.Repository, analyticsRepo analytics.Repository) *DriveService {
	return &DriveService{
		repo:         repo,
		companies:    companies,
		applications: applications,
		analytics:    analyticsRepo,
	}
}

// Create persists a drive with its round pipeline. Rounds are numbered
// 1..N in the order supplied; total_rounds always equals the round
// count.
func (s *DriveService) Create(ctx context.Context, d drive.Drive, createdBy common.UUID) (*drive.Drive, error) {
	if d.JobRole == "" {
		return nil, common.NewError(common.CodeValidation, "job_role is required", nil)
	}
	if d.MinCGPA < 0 || d.MinCGPA > 10 {
		return nil, common.NewValidationError("invalid criteria", map[string]string{"min_cgpa": "must be between 0 and 10"})
	}
	if d.MaxBacklogs < 0 {
		return nil, common.NewValidationError("invalid criteria", map[string]string{"max_backlogs": "must not be negative"})
	}
	if d.ApplicationDeadline.IsZero() {
		return nil, common.NewError(common.CodeValidation, "application_deadline is required", nil)
	}
	if _, err := s.companies.GetByID(ctx, d.CompanyID); err != nil {
		return nil, err
	}
	if d.Status == "" {
		d.Status = drive.StatusActive
	}
	if !drive.IsValidStatus(d.Status) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be draft, active, completed, or cancelled"})
	}
	if len(d.Rounds) == 0 {
		d.Rounds = defaultRounds()
	}
	for i := range d.Rounds {
		d.Rounds[i].RoundNumber = i + 1
		if d.Rounds[i].RoundName == "" {
			d.Rounds[i].RoundName = fmt.Sprintf("Round %d", i+1)
		}
		if d.Rounds[i].RoundType == "" {
			d.Rounds[i].RoundType = drive.RoundTechnical
		}
		if !drive.IsValidRoundType(d.Rounds[i].RoundType) {
			return nil, common.NewValidationError("invalid round", map[string]string{
				"round_type": "round type must be aptitude, technical, coding, hr, or other",
			})
		}
	}
	d.TotalRounds = len(d.Rounds)
	d.CreatedBy = createdBy

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "drive.created", &createdBy, map[string]string{"drive_id": created.ID.String()})
	return created, nil
}

// Update edits drive fields. Presentation fields stay editable while
// the drive is open; eligibility criteria are frozen once it leaves
// draft, and the status may only move draft -> active ->
// completed/cancelled.
func (s *DriveService) Update(ctx context.Context, id common.UUID, patch drive.Patch) (*drive.Drive, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drive.IsTerminalStatus(current.Status) {
		return nil, common.NewError(common.CodeValidation, "drive is closed", nil)
	}
	wasDraft := current.Status == drive.StatusDraft

	if patch.Status != nil && *patch.Status != current.Status {
		if !isAllowedDriveTransition(current.Status, *patch.Status) {
			return nil, common.NewError(common.CodeValidation,
				fmt.Sprintf("invalid status transition: %s -> %s", current.Status, *patch.Status), nil)
		}
		current.Status = *patch.Status
	}
	if patch.JobDescription != nil {
		current.JobDescription = *patch.JobDescription
	}
	if patch.Location != nil {
		current.Location = *patch.Location
	}

	if patch.HasCriteriaChange() {
		if !wasDraft {
			return nil, common.NewError(common.CodeValidation, "eligibility criteria are frozen once the drive is active", nil)
		}
		if patch.JobRole != nil {
			current.JobRole = *patch.JobRole
		}
		if patch.PackageCTC != nil {
			current.PackageCTC = *patch.PackageCTC
		}
		if patch.MinCGPA != nil {
			if *patch.MinCGPA < 0 || *patch.MinCGPA > 10 {
				return nil, common.NewValidationError("invalid criteria", map[string]string{"min_cgpa": "must be between 0 and 10"})
			}
			current.MinCGPA = *patch.MinCGPA
		}
		if patch.MaxBacklogs != nil {
			if *patch.MaxBacklogs < 0 {
				return nil, common.NewValidationError("invalid criteria", map[string]string{"max_backlogs": "must not be negative"})
			}
			current.MaxBacklogs = *patch.MaxBacklogs
		}
		if patch.ApplicationDeadline != nil {
			current.ApplicationDeadline = *patch.ApplicationDeadline
		}
	}

	updated, err := s.repo.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "drive.updated", nil, map[string]string{"drive_id": id.String(), "status": string(updated.Status)})
	return updated, nil
}

func (s *DriveService) SetStatus(ctx context.Context, id common.UUID, status drive.Status) (*drive.Drive, error) {
	status = drive.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !drive.IsValidStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be draft, active, completed, or cancelled"})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == current.Status {
		return current, nil
	}
	if !isAllowedDriveTransition(current.Status, status) {
		return nil, common.NewError(common.CodeValidation,
			fmt.Sprintf("invalid status transition: %s -> %s", current.Status, status), nil)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	current.Status = status
	s.record(ctx, "drive.status_changed", nil, map[string]string{"drive_id": id.String(), "status": string(status)})
	return current, nil
}

func (s *DriveService) Get(ctx context.Context, id common.UUID) (*drive.Drive, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DriveService) List(ctx context.Context, filter drive.ListFilter) ([]drive.Drive, error) {
	if filter.Status != "" && !drive.IsValidStatus(filter.Status) {
		return nil, common.NewValidationError("invalid filter", map[string]string{"status": "unknown status"})
	}
	return s.repo.List(ctx, filter)
}

func (s *DriveService) ListActive(ctx context.Context) ([]drive.Drive, error) {
	return s.repo.ListActive(ctx)
}

// Delete removes a drive only while no applications exist; afterwards
// the drive is a historical record and can only be cancelled.
func (s *DriveService) Delete(ctx context.Context, id common.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountApplications(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return common.NewError(common.CodeConflict, "drive has applications and cannot be deleted; cancel it instead", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "drive.deleted", nil, map[string]string{"drive_id": id.String()})
	return nil
}

// RoundBoard groups a drive's rounds with the applications that have
// reached each round, for the TPO round-management screen.
type RoundBoard struct {
	Drive  drive.Drive  `json:"drive"`
	Rounds []RoundEntry `json:"rounds"`
}

type RoundEntry struct {
	Round        drive.Round               `json:"round"`
	Applications []application.Application `json:"applications"`
}

func (s *DriveService) Rounds(ctx context.Context, id common.UUID) (*RoundBoard, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	board := &RoundBoard{Drive: *d, Rounds: make([]RoundEntry, 0, len(d.Rounds))}
	for _, round := range d.Rounds {
		apps, err := s.applications.ListByDriveAtRound(ctx, id, round.RoundNumber)
		if err != nil {
			return nil, err
		}
		board.Rounds = append(board.Rounds, RoundEntry{Round: round, Applications: apps})
	}
	return board, nil
}

func isAllowedDriveTransition(from, to drive.Status) bool {
	switch from {
	case drive.StatusDraft:
		return to == drive.StatusActive || to == drive.StatusCancelled
	case drive.StatusActive:
		return to == drive.StatusCompleted || to == drive.StatusCancelled
	default:
		return false
	}
}

func defaultRounds() []drive.Round {
	return []drive.Round{
		{RoundName: "Aptitude Test", RoundType: drive.RoundAptitude},
		{RoundName: "Technical Interview", RoundType: drive.RoundTechnical},
		{RoundName: "HR Interview", RoundType: drive.RoundHR},
	}
}

func (s *DriveService) record(ctx context.Context, name string, userID *common.UUID, payload map[string]string) {
	if s.analytics == nil {
		return
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: name, UserID: userID, Payload: payload})
}
