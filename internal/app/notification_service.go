package app

import (
	"context"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/notification"
)

// NotificationService is the read side of in-app notifications; the
// write side happens inside the domain services when state changes.
// Clients poll the unread count, so those queries stay cheap.
type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

const defaultNotificationLimit = 50

func (s *NotificationService) List(ctx context.Context, userID common.UUID, unreadOnly bool) ([]notification.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, defaultNotificationLimit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID common.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID common.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID common.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
