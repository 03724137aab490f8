package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

type applicationFixture struct {
	service       *ApplicationService
	repo          *fakeApplicationRepo
	drives        *fakeDriveRepo
	students      *fakeStudentRepo
	notifications *fakeNotificationRepo
	profile       student.Profile
	drive         *drive.Drive
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	repo := newFakeApplicationRepo()
	drives := newFakeDriveRepo()
	students := newFakeStudentRepo()
	notifications := newFakeNotificationRepo()
	service := NewApplicationService(repo, drives, students, notifications, noopAnalyticsRepo{})

	profile := students.put(student.Profile{
		UserID:     common.NewUUID(),
		FirstName:  "Asha",
		CGPA:       8.5,
		HasCGPA:    true,
		Backlogs:   0,
		ResumeURL:  "https://files.example.com/resume.pdf",
		IsApproved: true,
	})

	now := time.Now().UTC()
	d, err := drives.Create(context.Background(), drive.Drive{
		CompanyName:         "Acme",
		JobRole:             "Software Engineer",
		MinCGPA:             7.0,
		MaxBacklogs:         1,
		ApplicationDeadline: now.Add(24 * time.Hour),
		Status:              drive.StatusActive,
		TotalRounds:         3,
		Rounds: []drive.Round{
			{RoundNumber: 1, RoundName: "Aptitude Test", RoundType: drive.RoundAptitude},
			{RoundNumber: 2, RoundName: "Technical Interview", RoundType: drive.RoundTechnical},
			{RoundNumber: 3, RoundName: "HR Interview", RoundType: drive.RoundHR},
		},
	})
	if err != nil {
		t.Fatalf("expected drive created, got %v", err)
	}

	return &applicationFixture{
		service:       service,
		repo:          repo,
		drives:        drives,
		students:      students,
		notifications: notifications,
		profile:       profile,
		drive:         d,
	}
}

func TestApplicationServiceApply_Success(t *testing.T) {
	f := newApplicationFixture(t)

	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != application.StatusApplied {
		t.Fatalf("expected status applied, got %s", created.Status)
	}
	if created.CurrentRound != 0 {
		t.Fatalf("expected round 0, got %d", created.CurrentRound)
	}
	titles := f.notifications.titlesFor(f.profile.UserID)
	if len(titles) != 1 || titles[0] != "Application Submitted" {
		t.Fatalf("expected submission notification, got %v", titles)
	}
}

func TestApplicationServiceApply_Duplicate(t *testing.T) {
	f := newApplicationFixture(t)

	if _, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID); err != nil {
		t.Fatalf("expected first apply to succeed, got %v", err)
	}
	_, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestApplicationServiceApply_IneligibleCarriesDetails(t *testing.T) {
	f := newApplicationFixture(t)
	f.profile.CGPA = 6.0
	f.students.put(f.profile)

	_, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := common.DetailsOf(err)
	if len(details) != 1 {
		t.Fatalf("expected one detail, got %v", details)
	}
	if details[0] != "CGPA too low (required: 7.00, yours: 6.00)" {
		t.Fatalf("unexpected detail %q", details[0])
	}
	if items, _ := f.repo.ListByStudent(context.Background(), f.profile.ID); len(items) != 0 {
		t.Fatalf("expected no application stored, got %d", len(items))
	}
}

func TestApplicationServiceApply_DriveNotActive(t *testing.T) {
	f := newApplicationFixture(t)
	if err := f.drives.UpdateStatus(context.Background(), f.drive.ID, drive.StatusCompleted); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}

	_, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplicationServiceApply_ConcurrentSingleWinner(t *testing.T) {
	f := newApplicationFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !common.Is(err, common.CodeConflict) {
			t.Fatalf("expected conflict for losers, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
	items, _ := f.repo.ListByStudent(context.Background(), f.profile.ID)
	if len(items) != 1 {
		t.Fatalf("expected one stored application, got %d", len(items))
	}
}

func TestApplicationServicePromote_FullPipeline(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}

	steps := []struct {
		round  int
		status application.Status
	}{
		{1, application.StatusShortlisted},
		{2, application.StatusShortlisted},
		{3, application.StatusSelected},
	}
	for _, step := range steps {
		updated, err := f.service.Promote(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("promote to round %d: %v", step.round, err)
		}
		if updated.CurrentRound != step.round {
			t.Fatalf("expected round %d, got %d", step.round, updated.CurrentRound)
		}
		if updated.Status != step.status {
			t.Fatalf("expected status %s at round %d, got %s", step.status, step.round, updated.Status)
		}
	}

	_, err = f.service.Promote(context.Background(), created.ID)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected terminal application to refuse promotion, got %v", err)
	}
}

func TestApplicationServicePromote_AtFinalRoundSelectsWithoutAdvancing(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if _, err := f.repo.UpdateState(context.Background(), created.ID, application.StatusShortlisted, f.drive.TotalRounds, ""); err != nil {
		t.Fatalf("expected state update, got %v", err)
	}

	updated, err := f.service.Promote(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusSelected {
		t.Fatalf("expected selected, got %s", updated.Status)
	}
	if updated.CurrentRound != f.drive.TotalRounds {
		t.Fatalf("expected round to stay at %d, got %d", f.drive.TotalRounds, updated.CurrentRound)
	}
}

func TestApplicationServicePromote_ClosedDrive(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if err := f.drives.UpdateStatus(context.Background(), f.drive.ID, drive.StatusCancelled); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}

	_, err = f.service.Promote(context.Background(), created.ID)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplicationServiceRejectAtRound_FreezesRound(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if _, err := f.service.Promote(context.Background(), created.ID); err != nil {
		t.Fatalf("expected promote to succeed, got %v", err)
	}
	if _, err := f.service.Promote(context.Background(), created.ID); err != nil {
		t.Fatalf("expected promote to succeed, got %v", err)
	}

	updated, err := f.service.RejectAtRound(context.Background(), created.ID, "communication needs work")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
	if updated.CurrentRound != 2 {
		t.Fatalf("expected round frozen at 2, got %d", updated.CurrentRound)
	}
	if updated.Feedback != "communication needs work" {
		t.Fatalf("expected feedback recorded, got %q", updated.Feedback)
	}

	_, err = f.service.RejectAtRound(context.Background(), created.ID, "")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected terminal application to refuse rejection, got %v", err)
	}
}

func TestApplicationServiceSetStatus_TerminalImmutable(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if _, err := f.service.SetStatus(context.Background(), created.ID, application.StatusSelected, ""); err != nil {
		t.Fatalf("expected set status to succeed, got %v", err)
	}

	_, err = f.service.SetStatus(context.Background(), created.ID, application.StatusOnHold, "")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// setting the same terminal status again is a no-op, not an error
	same, err := f.service.SetStatus(context.Background(), created.ID, application.StatusSelected, "")
	if err != nil {
		t.Fatalf("expected same-status no-op, got %v", err)
	}
	if same.Status != application.StatusSelected {
		t.Fatalf("expected selected, got %s", same.Status)
	}
}

func TestApplicationServiceSetStatus_KeepsRound(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if _, err := f.service.Promote(context.Background(), created.ID); err != nil {
		t.Fatalf("expected promote to succeed, got %v", err)
	}

	updated, err := f.service.SetStatus(context.Background(), created.ID, application.StatusOnHold, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.CurrentRound != 1 {
		t.Fatalf("expected round kept at 1, got %d", updated.CurrentRound)
	}
	if updated.Status != application.StatusOnHold {
		t.Fatalf("expected on_hold, got %s", updated.Status)
	}
}

func TestApplicationServiceBulkUpdate_PartialReport(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}

	terminalProfile := f.students.put(student.Profile{
		UserID:     common.NewUUID(),
		FirstName:  "Ravi",
		CGPA:       9.0,
		HasCGPA:    true,
		ResumeURL:  "https://files.example.com/ravi.pdf",
		IsApproved: true,
	})
	terminal, err := f.service.Apply(context.Background(), terminalProfile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if _, err := f.service.SetStatus(context.Background(), terminal.ID, application.StatusRejected, ""); err != nil {
		t.Fatalf("expected set status to succeed, got %v", err)
	}
	missing := common.NewUUID()

	result, err := f.service.BulkUpdate(context.Background(), []common.UUID{created.ID, terminal.ID, missing}, application.StatusShortlisted)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 updated, got %d", result.Updated)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failed))
	}
	failedIDs := map[common.UUID]string{}
	for _, failure := range result.Failed {
		failedIDs[failure.ID] = failure.Reason
	}
	if _, ok := failedIDs[terminal.ID]; !ok {
		t.Fatal("expected terminal application in failure report")
	}
	if _, ok := failedIDs[missing]; !ok {
		t.Fatal("expected missing id in failure report")
	}
}

func TestApplicationServiceBulkUpdate_RejectsAppliedTarget(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.service.BulkUpdate(context.Background(), []common.UUID{common.NewUUID()}, application.StatusApplied)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplicationServiceGetForStudent_Ownership(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.service.Apply(context.Background(), f.profile.UserID, f.drive.ID)
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}

	other := f.students.put(student.Profile{
		UserID:     common.NewUUID(),
		CGPA:       8.0,
		HasCGPA:    true,
		ResumeURL:  "https://files.example.com/other.pdf",
		IsApproved: true,
	})

	_, err = f.service.GetForStudent(context.Background(), other.UserID, created.ID)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	got, err := f.service.GetForStudent(context.Background(), f.profile.UserID, created.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected application %s, got %s", created.ID, got.ID)
	}
}
