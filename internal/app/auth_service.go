package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/auth"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/department"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/user"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/security"
)

type AuthService struct {
	users       user.Repository
	students    student.Repository
	hods        student.HODRepository
	departments department.Repository
	refresh     auth.RefreshTokenRepository
	analytics   analytics.Repository
	jwt         *security.JWTProvider
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(users user.Repository, students student.Repository, hods student.HODRepository, departments department.Repository, refresh auth.RefreshTokenRepository, analyticsRepo analytics.Repository, jwt *security.JWTProvider, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		students:    students,
		hods:        hods,
		departments: departments,
		refresh:     refresh,
		analytics:   analyticsRepo,
		jwt:         jwt,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type RegisterInput struct {
	Email            string
	Password         string
	Role             user.Role
	DepartmentID     common.UUID
	FirstName        string
	LastName         string
	EnrollmentNumber string
}

type RegisterResult struct {
	User    *user.User       `json:"user"`
	Profile *student.Profile `json:"profile,omitempty"`
}

// Register creates the account and, for students, the unapproved
// profile in the chosen department. HOD and TPO accounts are normally
// provisioned by an administrator, so self-registration only accepts
// the student role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.NewValidationError("invalid request", map[string]string{"email": "a valid email is required"})
	}
	if len(input.Password) < 8 {
		return nil, common.NewValidationError("invalid request", map[string]string{"password": "password must be at least 8 characters"})
	}
	if input.Role == "" {
		input.Role = user.RoleStudent
	}
	if input.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only student accounts can self-register", nil)
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"name": "first_name and last_name are required"})
	}
	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.users.Create(ctx, user.User{Email: email, PasswordHash: string(hash), Role: user.RoleStudent})
	if err != nil {
		return nil, err
	}
	profile, err := s.students.Create(ctx, student.Profile{
		UserID:           account.ID,
		DepartmentID:     input.DepartmentID,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		EnrollmentNumber: input.EnrollmentNumber,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, "user.registered", &account.ID, map[string]string{"role": string(account.Role)})
	return &RegisterResult{User: account, Profile: profile}, nil
}

type LoginResult struct {
	Tokens auth.TokenPair `json:"tokens"`
	User   *user.User     `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	_ = s.users.TouchLastLogin(ctx, account.ID, s.now())
	s.record(ctx, "user.logged_in", &account.ID, map[string]string{"role": string(account.Role)})
	return &LoginResult{Tokens: *pair, User: account}, nil
}

// Refresh rotates the refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	stored, err := s.refresh.GetByToken(ctx, refreshToken)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", nil)
		}
		return nil, err
	}
	if !stored.Valid(s.now()) {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token expired or revoked", nil)
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Revoke(ctx, refreshToken, s.now()); err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: *pair, User: account}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID common.UUID) error {
	if err := s.refresh.RevokeAll(ctx, userID, s.now()); err != nil {
		return err
	}
	s.record(ctx, "user.logged_out", &userID, nil)
	return nil
}

// Me resolves the account plus its role-specific profile.
type MeResult struct {
	User    *user.User       `json:"user"`
	Profile *student.Profile `json:"profile,omitempty"`
	HOD     *student.HOD     `json:"hod,omitempty"`
}

func (s *AuthService) Me(ctx context.Context, userID common.UUID) (*MeResult, error) {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &MeResult{User: account}
	switch account.Role {
	case user.RoleStudent:
		if profile, err := s.students.GetByUserID(ctx, userID); err == nil {
			result.Profile = profile
		}
	case user.RoleHOD:
		if hod, err := s.hods.GetByUserID(ctx, userID); err == nil {
			result.HOD = hod
		}
	}
	return result, nil
}

func (s *AuthService) Departments(ctx context.Context) ([]department.Department, error) {
	return s.departments.List(ctx)
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*auth.TokenPair, error) {
	access, expiresAt, err := s.jwt.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to sign token", err)
	}
	refreshToken, err := newOpaqueToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	if err := s.refresh.Store(ctx, auth.RefreshToken{
		Token:     refreshToken,
		UserID:    account.ID,
		ExpiresAt: s.now().Add(s.refreshTTL),
		CreatedAt: s.now(),
	}); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt}, nil
}

func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *AuthService) record(ctx context.Context, name string, userID *common.UUID, payload map[string]string) {
	if s.analytics == nil {
		return
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: name, UserID: userID, Payload: payload})
}
