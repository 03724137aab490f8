package auth

import (
	"context"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type RefreshToken struct {
	Token     string
	UserID    common.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t RefreshToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, token string, revokedAt time.Time) error
	RevokeAll(ctx context.Context, userID common.UUID, revokedAt time.Time) error
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
