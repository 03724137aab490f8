package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/notification"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

// ApplicationService owns the apply gate, the round pipeline and bulk
// status updates. Mutations on a single application (and the apply
// gate for a (student, drive) pair) are serialized through a keyed
// mutex; unrelated applications proceed in parallel.
type ApplicationService struct {
	repo          application.Repository
	drives        drive.Repository
	students      student.Repository
	notifications notification.Repository
	analytics     analytics.Repository
	locks         *common.KeyedMutex
	now           func() time.Time
}

func NewApplicationService(repo application.Repository, drives drive.Repository, students student.Repository, notifications notification.Repository, analyticsRepo analytics.Repository) *ApplicationService {
	return &ApplicationService{
		repo:          repo,
		drives:        drives,
		students:      students,
		notifications: notifications,
		analytics:     analyticsRepo,
		locks:         common.NewKeyedMutex(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests.
func (s *ApplicationService) WithClock(now func() time.Time) *ApplicationService {
	s.now = now
	return s
}

// CheckEligibility runs the evaluator without side effects.
func (s *ApplicationService) CheckEligibility(ctx context.Context, userID, driveID common.UUID) (*EligibilityVerdict, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	d, err := s.drives.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	verdict := EvaluateEligibility(*profile, *d, s.now())
	return &verdict, nil
}

// Apply admits a student into a drive. Preconditions run in order and
// the first failure wins: drive must be active, the pair must not have
// applied before, and the evaluator must come back clean. The duplicate
// check and the insert run under the pair's lock so concurrent applies
// admit exactly one application.
func (s *ApplicationService) Apply(ctx context.Context, userID, driveID common.UUID) (*application.Application, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	d, err := s.drives.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if d.Status != drive.StatusActive {
		return nil, common.NewError(common.CodeValidation, "drive is not accepting applications", nil)
	}

	key := "apply:" + profile.ID.String() + ":" + driveID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if _, err := s.repo.FindByStudentAndDrive(ctx, profile.ID, driveID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied to this drive", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	verdict := EvaluateEligibility(*profile, *d, s.now())
	if !verdict.Eligible {
		return nil, common.NewErrorWithDetails(common.CodeValidation, "eligibility criteria not met", verdict.IssueMessages(), nil)
	}

	created, err := s.repo.Create(ctx, application.Application{
		StudentID:    profile.ID,
		DriveID:      driveID,
		Status:       application.StatusApplied,
		CurrentRound: 0,
		AppliedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, profile.UserID, "Application Submitted",
		fmt.Sprintf("Your application to %s for %s has been submitted.", d.CompanyName, d.JobRole),
		notification.TypeSuccess, "application", created.ID)
	s.record(ctx, "application.created", &profile.UserID, map[string]string{"application_id": created.ID.String(), "drive_id": driveID.String()})
	return created, nil
}

// Promote advances an application one round. At the final round the
// candidate becomes selected instead; current_round never passes the
// drive's total_rounds.
func (s *ApplicationService) Promote(ctx context.Context, applicationID common.UUID) (*application.Application, error) {
	s.locks.Lock(applicationID.String())
	defer s.locks.Unlock(applicationID.String())

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.IsTerminal(app.Status) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition: application is final", nil)
	}
	d, err := s.drives.GetByID(ctx, app.DriveID)
	if err != nil {
		return nil, err
	}
	if drive.IsTerminalStatus(d.Status) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition: drive is closed", nil)
	}
	if app.CurrentRound > d.TotalRounds {
		return nil, common.NewError(common.CodeValidation, "invalid status transition: round out of range", nil)
	}

	newRound := app.CurrentRound
	newStatus := application.StatusSelected
	if app.CurrentRound < d.TotalRounds {
		newRound = app.CurrentRound + 1
		if newRound < d.TotalRounds {
			newStatus = application.StatusShortlisted
		}
	}

	updated, err := s.repo.UpdateState(ctx, applicationID, newStatus, newRound, app.Feedback)
	if err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, updated.StudentID, "Round Update", promoteMessage(newStatus, newRound),
		promoteType(newStatus), "application", updated.ID)
	s.record(ctx, "application.promoted", nil, map[string]string{
		"application_id": updated.ID.String(),
		"round":          fmt.Sprintf("%d", newRound),
		"status":         string(newStatus),
	})
	return updated, nil
}

// RejectAtRound washes a candidate out at whatever round they are in.
// The round is left untouched as a record of how far they got.
func (s *ApplicationService) RejectAtRound(ctx context.Context, applicationID common.UUID, feedback string) (*application.Application, error) {
	s.locks.Lock(applicationID.String())
	defer s.locks.Unlock(applicationID.String())

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.IsTerminal(app.Status) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition: application is final", nil)
	}

	updated, err := s.repo.UpdateState(ctx, applicationID, application.StatusRejected, app.CurrentRound, feedback)
	if err != nil {
		return nil, err
	}

	message := "Unfortunately, you were not selected for the next round."
	if feedback != "" {
		message += " Feedback: " + feedback
	}
	s.notifyStudent(ctx, updated.StudentID, "Application Update", message, notification.TypeWarning, "application", updated.ID)
	s.record(ctx, "application.rejected", nil, map[string]string{"application_id": updated.ID.String()})
	return updated, nil
}

// SetStatus is the TPO's direct status override. It honors terminal
// immutability but skips the round pipeline: current_round is kept.
func (s *ApplicationService) SetStatus(ctx context.Context, applicationID common.UUID, status application.Status, feedback string) (*application.Application, error) {
	if !application.IsValidStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{
			"status": "status must be applied, shortlisted, on_hold, selected, or rejected",
		})
	}

	s.locks.Lock(applicationID.String())
	defer s.locks.Unlock(applicationID.String())

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status == status {
		return app, nil
	}
	if application.IsTerminal(app.Status) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition: application is final", nil)
	}
	if feedback == "" {
		feedback = app.Feedback
	}

	updated, err := s.repo.UpdateState(ctx, applicationID, status, app.CurrentRound, feedback)
	if err != nil {
		return nil, err
	}

	if message, ok := statusMessages[status]; ok {
		kind := notification.TypeInfo
		if status == application.StatusSelected {
			kind = notification.TypeSuccess
		}
		s.notifyStudent(ctx, updated.StudentID, "Application Status Update", message, kind, "application", updated.ID)
	}
	s.record(ctx, "application.status_changed", nil, map[string]string{"application_id": updated.ID.String(), "status": string(status)})
	return updated, nil
}

// BulkUpdate applies one target status to every listed application
// independently. Terminal applications (and missing ids) are reported
// per id; the rest still go through.
func (s *ApplicationService) BulkUpdate(ctx context.Context, ids []common.UUID, status application.Status) (*application.BulkResult, error) {
	switch status {
	case application.StatusShortlisted, application.StatusOnHold, application.StatusSelected, application.StatusRejected:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{
			"status": "status must be shortlisted, on_hold, selected, or rejected",
		})
	}
	if len(ids) == 0 {
		return nil, common.NewValidationError("invalid request", map[string]string{"application_ids": "at least one application id is required"})
	}

	result := &application.BulkResult{Failed: []application.BulkFailure{}}
	for _, id := range ids {
		if _, err := s.SetStatus(ctx, id, status, ""); err != nil {
			result.Failed = append(result.Failed, application.BulkFailure{ID: id, Reason: bulkReason(err)})
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) GetForStudent(ctx context.Context, userID, id common.UUID) (*application.Application, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.StudentID != profile.ID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another student", nil)
	}
	return app, nil
}

func (s *ApplicationService) ListByUser(ctx context.Context, userID common.UUID) ([]application.Application, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, profile.ID)
}

func (s *ApplicationService) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	return s.repo.List(ctx, filter)
}

// StudentStats counts the student's applications by status.
func (s *ApplicationService) StudentStats(ctx context.Context, userID common.UUID) (map[application.Status]int, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.CountByStudent(ctx, profile.ID)
}

var statusMessages = map[application.Status]string{
	application.StatusShortlisted: "Congratulations! You have been shortlisted.",
	application.StatusSelected:    "Congratulations! You have been SELECTED!",
	application.StatusRejected:    "Your application has been rejected.",
	application.StatusOnHold:      "Your application is on hold.",
}

func promoteMessage(status application.Status, round int) string {
	if status == application.StatusSelected {
		return "Congratulations! You have been SELECTED!"
	}
	return fmt.Sprintf("You have been shortlisted for round %d.", round)
}

func promoteType(status application.Status) notification.Type {
	if status == application.StatusSelected {
		return notification.TypeSuccess
	}
	return notification.TypeInfo
}

func bulkReason(err error) string {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// notifyStudent resolves the student's account before writing the
// notification; failures are swallowed like every notify call.
func (s *ApplicationService) notifyStudent(ctx context.Context, studentID common.UUID, title, message string, kind notification.Type, entityType string, entityID common.UUID) {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return
	}
	s.notify(ctx, profile.UserID, title, message, kind, entityType, entityID)
}

func (s *ApplicationService) notify(ctx context.Context, userID common.UUID, title, message string, kind notification.Type, entityType string, entityID common.UUID) {
	if s.notifications == nil {
		return
	}
	_ = s.notifications.Create(ctx, notification.Notification{
		UserID:            userID,
		Title:             title,
		Message:           message,
		Type:              kind,
		RelatedEntityType: entityType,
		RelatedEntityID:   &entityID,
	})
}

func (s *ApplicationService) record(ctx context.Context, name string, userID *common.UUID, payload map[string]string) {
	if s.analytics == nil {
		return
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: name, UserID: userID, Payload: payload})
}
