package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/auth"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/company"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/department"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/notification"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/user"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
	byID    map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*user.User),
		byID:    make(map[common.UUID]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	}
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	stored := account
	r.byEmail[account.Email] = &stored
	r.byID[account.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	clone := *account
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	clone := *account
	return &clone, nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id common.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	account.LastLogin = &at
	return nil
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	byID     map[common.UUID]*student.Profile
	byUserID map[common.UUID]*student.Profile
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		byID:     make(map[common.UUID]*student.Profile),
		byUserID: make(map[common.UUID]*student.Profile),
	}
}

func (r *fakeStudentRepo) put(profile student.Profile) student.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID.IsZero() {
		profile.ID = common.NewUUID()
	}
	stored := profile
	r.byID[profile.ID] = &stored
	r.byUserID[profile.UserID] = &stored
	return stored
}

func (r *fakeStudentRepo) Create(ctx context.Context, profile student.Profile) (*student.Profile, error) {
	stored := r.put(profile)
	return &stored, nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id common.UUID) (*student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.byID[id]
	if profile == nil {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeStudentRepo) GetByUserID(ctx context.Context, userID common.UUID) (*student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.byUserID[userID]
	if profile == nil {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, id common.UUID, update student.Update) (*student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.byID[id]
	if profile == nil {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		profile.LastName = *update.LastName
	}
	if update.Phone != nil {
		profile.Phone = *update.Phone
	}
	if update.CGPA != nil {
		profile.CGPA = *update.CGPA
		profile.HasCGPA = true
	}
	if update.Backlogs != nil {
		profile.Backlogs = *update.Backlogs
	}
	if update.Skills != nil {
		profile.Skills = append([]string(nil), update.Skills...)
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeStudentRepo) SetResumeURL(ctx context.Context, id common.UUID, resumeURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.byID[id]
	if profile == nil {
		return common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	profile.ResumeURL = resumeURL
	return nil
}

func (r *fakeStudentRepo) SetApproval(ctx context.Context, id common.UUID, approved bool, approvedBy *common.UUID, approvedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.byID[id]
	if profile == nil {
		return common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	profile.IsApproved = approved
	profile.ApprovedBy = approvedBy
	profile.ApprovedAt = approvedAt
	return nil
}

func (r *fakeStudentRepo) List(ctx context.Context, filter student.ListFilter) ([]student.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []student.Summary
	for _, profile := range r.byID {
		if !filter.DepartmentID.IsZero() && profile.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Approved != nil && profile.IsApproved != *filter.Approved {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(profile.FirstName+" "+profile.LastName), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, student.Summary{Profile: *profile})
	}
	return items, nil
}

type fakeHODRepo struct {
	mu       sync.Mutex
	byUserID map[common.UUID]*student.HOD
}

func newFakeHODRepo() *fakeHODRepo {
	return &fakeHODRepo{byUserID: make(map[common.UUID]*student.HOD)}
}

func (r *fakeHODRepo) GetByUserID(ctx context.Context, userID common.UUID) (*student.HOD, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hod := r.byUserID[userID]
	if hod == nil {
		return nil, common.NewError(common.CodeNotFound, "hod not found", nil)
	}
	clone := *hod
	return &clone, nil
}

func (r *fakeHODRepo) Create(ctx context.Context, hod student.HOD) (*student.HOD, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hod.ID.IsZero() {
		hod.ID = common.NewUUID()
	}
	stored := hod
	r.byUserID[hod.UserID] = &stored
	clone := stored
	return &clone, nil
}

type fakeDepartmentRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*department.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{byID: make(map[common.UUID]*department.Department)}
}

func (r *fakeDepartmentRepo) add(name, code string) department.Department {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := department.Department{ID: common.NewUUID(), Name: name, Code: code}
	r.byID[d.ID] = &d
	return d
}

func (r *fakeDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []department.Department
	for _, d := range r.byID {
		items = append(items, *d)
	}
	return items, nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id common.UUID) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.byID[id]
	if d == nil {
		return nil, common.NewError(common.CodeNotFound, "department not found", nil)
	}
	clone := *d
	return &clone, nil
}

type fakeCompanyRepo struct {
	mu         sync.Mutex
	byID       map[common.UUID]*company.Company
	driveCount map[common.UUID]int
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		byID:       make(map[common.UUID]*company.Company),
		driveCount: make(map[common.UUID]int),
	}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := c
	r.byID[c.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[c.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "company not found", nil)
	}
	stored := c
	r.byID[c.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byID[id]
	if c == nil {
		return nil, common.NewError(common.CodeNotFound, "company not found", nil)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []company.Company
	for _, c := range r.byID {
		items = append(items, *c)
	}
	return items, nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[id] == nil {
		return common.NewError(common.CodeNotFound, "company not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeCompanyRepo) CountDrives(ctx context.Context, id common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.driveCount[id], nil
}

type fakeDriveRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*drive.Drive
	apps map[common.UUID]int
}

func newFakeDriveRepo() *fakeDriveRepo {
	return &fakeDriveRepo{
		byID: make(map[common.UUID]*drive.Drive),
		apps: make(map[common.UUID]int),
	}
}

func cloneDrive(d *drive.Drive) *drive.Drive {
	clone := *d
	clone.Rounds = append([]drive.Round(nil), d.Rounds...)
	return &clone
}

func (r *fakeDriveRepo) Create(ctx context.Context, d drive.Drive) (*drive.Drive, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = common.NewUUID()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	for i := range d.Rounds {
		d.Rounds[i].ID = common.NewUUID()
		d.Rounds[i].DriveID = d.ID
	}
	stored := d
	r.byID[d.ID] = &stored
	return cloneDrive(&stored), nil
}

func (r *fakeDriveRepo) Update(ctx context.Context, d drive.Drive) (*drive.Drive, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[d.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "drive not found", nil)
	}
	d.Rounds = current.Rounds
	stored := d
	r.byID[d.ID] = &stored
	return cloneDrive(&stored), nil
}

func (r *fakeDriveRepo) UpdateStatus(ctx context.Context, id common.UUID, status drive.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.byID[id]
	if d == nil {
		return common.NewError(common.CodeNotFound, "drive not found", nil)
	}
	d.Status = status
	return nil
}

func (r *fakeDriveRepo) GetByID(ctx context.Context, id common.UUID) (*drive.Drive, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.byID[id]
	if d == nil {
		return nil, common.NewError(common.CodeNotFound, "drive not found", nil)
	}
	return cloneDrive(d), nil
}

func (r *fakeDriveRepo) List(ctx context.Context, filter drive.ListFilter) ([]drive.Drive, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []drive.Drive
	for _, d := range r.byID {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if !filter.CompanyID.IsZero() && d.CompanyID != filter.CompanyID {
			continue
		}
		items = append(items, *cloneDrive(d))
	}
	return items, nil
}

func (r *fakeDriveRepo) ListActive(ctx context.Context) ([]drive.Drive, error) {
	return r.List(ctx, drive.ListFilter{Status: drive.StatusActive})
}

func (r *fakeDriveRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[id] == nil {
		return common.NewError(common.CodeNotFound, "drive not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeDriveRepo) CountApplications(ctx context.Context, id common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id], nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.StudentID == app.StudentID && existing.DriveID == app.DriveID {
			return nil, common.NewError(common.CodeConflict, "application already exists", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.UpdatedAt = now
	stored := app
	r.byID[app.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) FindByStudentAndDrive(ctx context.Context, studentID, driveID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.StudentID == studentID && app.DriveID == driveID {
			clone := *app
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) UpdateState(ctx context.Context, id common.UUID, status application.Status, currentRound int, feedback string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.CurrentRound = currentRound
	app.Feedback = feedback
	app.UpdatedAt = time.Now().UTC()
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if app.StudentID == studentID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if !filter.DriveID.IsZero() && app.DriveID != filter.DriveID {
			continue
		}
		if !filter.StudentID.IsZero() && app.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		items = append(items, *app)
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByDriveAtRound(ctx context.Context, driveID common.UUID, roundNumber int) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if app.DriveID == driveID && app.CurrentRound >= roundNumber {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) CountByStudent(ctx context.Context, studentID common.UUID) (map[application.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[application.Status]int)
	for _, app := range r.byID {
		if app.StudentID == studentID {
			counts[app.Status]++
		}
	}
	return counts, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = common.NewUUID()
	}
	n.CreatedAt = time.Now().UTC()
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID common.UUID, unreadOnly bool, limit int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []notification.Notification
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		items = append(items, n)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "notification not found", nil)
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) titlesFor(userID common.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var titles []string
	for _, n := range r.items {
		if n.UserID == userID {
			titles = append(titles, n.Title)
		}
	}
	return titles
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	clone := value
	return &clone, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	value.RevokedAt = &revokedAt
	r.tokens[token] = value
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAll(ctx context.Context, userID common.UUID, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range r.tokens {
		if value.UserID == userID {
			value.RevokedAt = &revokedAt
			r.tokens[key] = value
		}
	}
	return nil
}

type noopAnalyticsRepo struct{}

func (noopAnalyticsRepo) Create(ctx context.Context, event analytics.Event) error {
	return nil
}
