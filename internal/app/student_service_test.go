package app

import (
	"context"
	"testing"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

type studentFixture struct {
	service       *StudentService
	students      *fakeStudentRepo
	hods          *fakeHODRepo
	notifications *fakeNotificationRepo
	hodUserID     common.UUID
	deptID        common.UUID
	otherDeptID   common.UUID
	now           time.Time
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()
	students := newFakeStudentRepo()
	hods := newFakeHODRepo()
	notifications := newFakeNotificationRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	deptID := common.NewUUID()
	otherDeptID := common.NewUUID()
	hodUserID := common.NewUUID()
	if _, err := hods.Create(context.Background(), student.HOD{UserID: hodUserID, DepartmentID: deptID}); err != nil {
		t.Fatalf("seeding hod: %v", err)
	}

	service := NewStudentService(students, hods, notifications, noopAnalyticsRepo{}).
		WithClock(func() time.Time { return now })
	return &studentFixture{
		service:       service,
		students:      students,
		hods:          hods,
		notifications: notifications,
		hodUserID:     hodUserID,
		deptID:        deptID,
		otherDeptID:   otherDeptID,
		now:           now,
	}
}

func (f *studentFixture) seedStudent(deptID common.UUID, firstName string) student.Profile {
	return f.students.put(student.Profile{
		UserID:       common.NewUUID(),
		DepartmentID: deptID,
		FirstName:    firstName,
		LastName:     "Rao",
	})
}

func TestStudentServiceApprove_RecordsApproverAndNotifies(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.deptID, "Meera")

	if err := f.service.Approve(context.Background(), f.hodUserID, profile.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	updated, err := f.students.GetByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if !updated.IsApproved {
		t.Fatal("expected profile to be approved")
	}
	if updated.ApprovedBy == nil || *updated.ApprovedBy != f.hodUserID {
		t.Fatalf("expected approver %s, got %v", f.hodUserID, updated.ApprovedBy)
	}
	if updated.ApprovedAt == nil || !updated.ApprovedAt.Equal(f.now) {
		t.Fatalf("expected approval time %s, got %v", f.now, updated.ApprovedAt)
	}
	titles := f.notifications.titlesFor(profile.UserID)
	if len(titles) != 1 || titles[0] != "Profile Approved" {
		t.Fatalf("expected a Profile Approved notification, got %v", titles)
	}
}

func TestStudentServiceApprove_OtherDepartmentForbidden(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.otherDeptID, "Rahul")

	err := f.service.Approve(context.Background(), f.hodUserID, profile.ID)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	updated, _ := f.students.GetByID(context.Background(), profile.ID)
	if updated.IsApproved {
		t.Fatal("cross-department approval must not stick")
	}
}

func TestStudentServiceReject_ClearsApprovalWithReason(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.deptID, "Meera")
	if err := f.service.Approve(context.Background(), f.hodUserID, profile.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := f.service.Reject(context.Background(), f.hodUserID, profile.ID, "CGPA entry does not match transcript"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	updated, _ := f.students.GetByID(context.Background(), profile.ID)
	if updated.IsApproved {
		t.Fatal("expected approval to be withdrawn")
	}
	if updated.ApprovedBy != nil || updated.ApprovedAt != nil {
		t.Fatal("expected approval metadata to be cleared")
	}
	titles := f.notifications.titlesFor(profile.UserID)
	if len(titles) == 0 || titles[len(titles)-1] != "Profile Needs Update" {
		t.Fatalf("expected a Profile Needs Update notification, got %v", titles)
	}
}

func TestStudentServiceBulkApprove_PartialReport(t *testing.T) {
	f := newStudentFixture(t)
	own := f.seedStudent(f.deptID, "Meera")
	foreign := f.seedStudent(f.otherDeptID, "Rahul")
	missing := common.NewUUID()

	result, err := f.service.BulkApprove(context.Background(), f.hodUserID, []common.UUID{own.ID, foreign.ID, missing})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Approved != 1 {
		t.Fatalf("expected 1 approval, got %d", result.Approved)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failed))
	}
	failedIDs := map[common.UUID]bool{}
	for _, failure := range result.Failed {
		if failure.Reason == "" {
			t.Fatalf("failure for %s carries no reason", failure.ID)
		}
		failedIDs[failure.ID] = true
	}
	if !failedIDs[foreign.ID] || !failedIDs[missing] {
		t.Fatalf("expected failures for %s and %s, got %v", foreign.ID, missing, result.Failed)
	}
}

func TestStudentServiceBulkApprove_EmptyList(t *testing.T) {
	f := newStudentFixture(t)

	_, err := f.service.BulkApprove(context.Background(), f.hodUserID, nil)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStudentServiceUpdateProfile_CGPARange(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.deptID, "Meera")

	bad := 10.5
	_, err := f.service.UpdateProfile(context.Background(), profile.UserID, student.Update{CGPA: &bad})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	ok := 8.2
	updated, err := f.service.UpdateProfile(context.Background(), profile.UserID, student.Update{CGPA: &ok})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !updated.HasCGPA || updated.CGPA != 8.2 {
		t.Fatalf("expected CGPA 8.2 recorded, got %+v", updated)
	}
}

func TestStudentServiceUpdateProfile_NegativeBacklogs(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.deptID, "Meera")

	backlogs := -1
	_, err := f.service.UpdateProfile(context.Background(), profile.UserID, student.Update{Backlogs: &backlogs})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStudentServiceSetResume_RequiresURL(t *testing.T) {
	f := newStudentFixture(t)
	profile := f.seedStudent(f.deptID, "Meera")

	_, err := f.service.SetResume(context.Background(), profile.UserID, "   ")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err := f.service.SetResume(context.Background(), profile.UserID, "https://cdn.example.com/resumes/meera.pdf")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.ResumeURL != "https://cdn.example.com/resumes/meera.pdf" {
		t.Fatalf("expected resume url stored, got %q", updated.ResumeURL)
	}
}

func TestStudentServiceListForHOD_ScopedToDepartment(t *testing.T) {
	f := newStudentFixture(t)
	own := f.seedStudent(f.deptID, "Meera")
	f.seedStudent(f.otherDeptID, "Rahul")

	items, err := f.service.ListForHOD(context.Background(), f.hodUserID, nil, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 || items[0].Profile.ID != own.ID {
		t.Fatalf("expected only the HOD's own department, got %v", items)
	}
}

func TestStudentServiceListForHOD_ApprovalFilter(t *testing.T) {
	f := newStudentFixture(t)
	approved := f.seedStudent(f.deptID, "Meera")
	pending := f.seedStudent(f.deptID, "Kiran")
	if err := f.service.Approve(context.Background(), f.hodUserID, approved.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	wantApproved := false
	items, err := f.service.ListForHOD(context.Background(), f.hodUserID, &wantApproved, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 || items[0].Profile.ID != pending.ID {
		t.Fatalf("expected only the pending student, got %v", items)
	}
}
