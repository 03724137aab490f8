package app

import (
	"context"
	"strings"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/notification"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

// StudentService covers the student's own profile plus the HOD approval
// workflow over a department's students.
type StudentService struct {
	students      student.Repository
	hods          student.HODRepository
	notifications notification.Repository
	analytics     analytics.Repository
	now           func() time.Time
}

func NewStudentService(students student.Repository, hods student.HODRepository, notifications notification.Repository, analyticsRepo analytics.Repository) *StudentService {
	return &StudentService{
		students:      students,
		hods:          hods,
		notifications: notifications,
		analytics:     analyticsRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *StudentService) WithClock(now func() time.Time) *StudentService {
	s.now = now
	return s
}

func (s *StudentService) GetProfile(ctx context.Context, userID common.UUID) (*student.Profile, error) {
	return s.students.GetByUserID(ctx, userID)
}

func (s *StudentService) UpdateProfile(ctx context.Context, userID common.UUID, update student.Update) (*student.Profile, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.CGPA != nil && (*update.CGPA < 0 || *update.CGPA > 10) {
		return nil, common.NewValidationError("invalid profile", map[string]string{"cgpa": "must be between 0 and 10"})
	}
	if update.Backlogs != nil && *update.Backlogs < 0 {
		return nil, common.NewValidationError("invalid profile", map[string]string{"backlogs": "must not be negative"})
	}
	updated, err := s.students.Update(ctx, profile.ID, update)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "student.profile_updated", &userID, map[string]string{"student_id": profile.ID.String()})
	return updated, nil
}

// SetResume stores the reference to an externally hosted resume file.
func (s *StudentService) SetResume(ctx context.Context, userID common.UUID, resumeURL string) (*student.Profile, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"resume_url": "resume_url is required"})
	}
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.students.SetResumeURL(ctx, profile.ID, resumeURL); err != nil {
		return nil, err
	}
	s.record(ctx, "student.resume_updated", &userID, map[string]string{"student_id": profile.ID.String()})
	return s.students.GetByID(ctx, profile.ID)
}

// ListForHOD returns the students of the HOD's own department; HODs
// never see other departments.
func (s *StudentService) ListForHOD(ctx context.Context, hodUserID common.UUID, approved *bool, search string) ([]student.Summary, error) {
	hod, err := s.hods.GetByUserID(ctx, hodUserID)
	if err != nil {
		return nil, err
	}
	return s.students.List(ctx, student.ListFilter{
		DepartmentID: hod.DepartmentID,
		Approved:     approved,
		Search:       strings.TrimSpace(search),
	})
}

// Approve marks the student eligible to apply. Records who approved and
// when, and tells the student.
func (s *StudentService) Approve(ctx context.Context, hodUserID, studentID common.UUID) error {
	hod, err := s.hods.GetByUserID(ctx, hodUserID)
	if err != nil {
		return err
	}
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if profile.DepartmentID != hod.DepartmentID {
		return common.NewError(common.CodeForbidden, "student belongs to another department", nil)
	}
	now := s.now()
	if err := s.students.SetApproval(ctx, studentID, true, &hodUserID, &now); err != nil {
		return err
	}
	s.notify(ctx, profile.UserID, "Profile Approved",
		"Your profile has been approved by the HOD. You can now apply to placement drives.",
		notification.TypeSuccess)
	s.record(ctx, "student.approved", &hodUserID, map[string]string{"student_id": studentID.String()})
	return nil
}

// Reject withdraws (or withholds) approval with a reason for the
// student to act on.
func (s *StudentService) Reject(ctx context.Context, hodUserID, studentID common.UUID, reason string) error {
	hod, err := s.hods.GetByUserID(ctx, hodUserID)
	if err != nil {
		return err
	}
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if profile.DepartmentID != hod.DepartmentID {
		return common.NewError(common.CodeForbidden, "student belongs to another department", nil)
	}
	if reason == "" {
		reason = "Profile rejected by HOD"
	}
	if err := s.students.SetApproval(ctx, studentID, false, nil, nil); err != nil {
		return err
	}
	s.notify(ctx, profile.UserID, "Profile Needs Update", reason, notification.TypeWarning)
	s.record(ctx, "student.rejected", &hodUserID, map[string]string{"student_id": studentID.String()})
	return nil
}

// ApprovalResult mirrors the bulk application report: per-student
// failures are data.
type ApprovalResult struct {
	Approved int               `json:"approved"`
	Failed   []ApprovalFailure `json:"failed"`
}

type ApprovalFailure struct {
	ID     common.UUID `json:"id"`
	Reason string      `json:"reason"`
}

func (s *StudentService) BulkApprove(ctx context.Context, hodUserID common.UUID, studentIDs []common.UUID) (*ApprovalResult, error) {
	if len(studentIDs) == 0 {
		return nil, common.NewValidationError("invalid request", map[string]string{"student_ids": "at least one student id is required"})
	}
	result := &ApprovalResult{Failed: []ApprovalFailure{}}
	for _, id := range studentIDs {
		if err := s.Approve(ctx, hodUserID, id); err != nil {
			result.Failed = append(result.Failed, ApprovalFailure{ID: id, Reason: bulkReason(err)})
			continue
		}
		result.Approved++
	}
	return result, nil
}

func (s *StudentService) notify(ctx context.Context, userID common.UUID, title, message string, kind notification.Type) {
	if s.notifications == nil {
		return
	}
	_ = s.notifications.Create(ctx, notification.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	})
}

func (s *StudentService) record(ctx context.Context, name string, userID *common.UUID, payload map[string]string) {
	if s.analytics == nil {
		return
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: name, UserID: userID, Payload: payload})
}
