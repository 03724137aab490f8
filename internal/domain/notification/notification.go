package notification

import (
	"context"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Notification is an in-app message. Delivery to external channels
// (email, push) is a collaborator's job, not this package's.
type Notification struct {
	ID                common.UUID  `json:"id"`
	UserID            common.UUID  `json:"user_id"`
	Title             string       `json:"title"`
	Message           string       `json:"message"`
	Type              Type         `json:"type"`
	RelatedEntityType string       `json:"related_entity_type,omitempty"`
	RelatedEntityID   *common.UUID `json:"related_entity_id,omitempty"`
	IsRead            bool         `json:"is_read"`
	CreatedAt         time.Time    `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID common.UUID, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID common.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID common.UUID) error
	MarkAllRead(ctx context.Context, userID common.UUID) (int, error)
}
