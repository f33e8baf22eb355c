// Package notifications publishes per-user notification events to Redis.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"rewear/internal/models"
	"rewear/internal/observability"

	"github.com/redis/go-redis/v9"
)

// EventNotificationCreated is the event type carried by published payloads.
const EventNotificationCreated = "notification.created"

// Event is the JSON payload written to a user's channel.
type Event struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

// Notifier provides helpers to publish notifications into Redis channels.
// A Notifier without a client is a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the pub/sub channel name for a user.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishNotification encodes notification as an Event and publishes it to
// the owner's channel.
func (n *Notifier) PublishNotification(ctx context.Context, notification *models.Notification) error {
	if n == nil || n.rdb == nil || notification == nil {
		return nil
	}
	payload, err := json.Marshal(Event{Type: EventNotificationCreated, Notification: notification})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	if err := n.PublishUser(ctx, notification.UserID, string(payload)); err != nil {
		observability.NotificationsPublished.WithLabelValues("error").Inc()
		return err
	}
	observability.NotificationsPublished.WithLabelValues("ok").Inc()
	return nil
}
