package service

import (
	"context"
	"log/slog"

	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/repository"
)

// NotificationPublisher fans a stored notification out to live listeners.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *models.Notification) error
}

// publish is best-effort; the notification row is already committed.
func publish(ctx context.Context, p NotificationPublisher, n *models.Notification) {
	if p == nil || n == nil {
		return
	}
	if err := p.PublishNotification(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.Uint64("notification_id", uint64(n.ID)),
			slog.String("error", err.Error()),
		)
	}
}

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// MarkRead flags one of the caller's notifications as read. Ids that are
// unknown or owned by someone else are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	_, err := s.notifications.MarkRead(ctx, userID, id)
	return err
}
