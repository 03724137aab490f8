package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	if n.ID.IsZero() {
		n.ID = common.NewUUID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	var relatedID any
	if n.RelatedEntityID != nil {
		relatedID = *n.RelatedEntityID
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications
		(id, user_id, title, message, type, related_entity_type, related_entity_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, nullString(n.RelatedEntityType), relatedID, n.IsRead, n.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID common.UUID, unreadOnly bool, limit int) ([]notification.Notification, error) {
	query := `SELECT id, user_id, title, message, type, related_entity_type, related_entity_id, is_read, created_at
		FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	defer rows.Close()
	var items []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var entityType sql.NullString
		var entityID sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &entityType, &entityID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notification", err)
		}
		n.RelatedEntityType = entityType.String
		if entityID.Valid {
			id := common.UUID(entityID.String)
			n.RelatedEntityID = &id
		}
		items = append(items, n)
	}
	return items, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID common.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count notifications", err)
	}
	return count, nil
}

// MarkRead scopes the update to the owner so a user cannot read-ack
// someone else's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark notification read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark notification read", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID common.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to mark notifications read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to mark notifications read", err)
	}
	return int(affected), nil
}
