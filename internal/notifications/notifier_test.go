package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rewear/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "test payload"))
	assert.NoError(t, n.PublishNotification(context.Background(), &models.Notification{UserID: 1}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishNotification(context.Background(), &models.Notification{UserID: 1}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_PublishNotification(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := rdb.Subscribe(ctx, UserChannel(7))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := NewNotifier(rdb)
	require.NoError(t, n.PublishNotification(ctx, &models.Notification{
		ID:      3,
		UserID:  7,
		Type:    models.NotificationTypeMessage,
		Message: "New message from Sara.",
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "notifications:user:7", msg.Channel)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, EventNotificationCreated, event.Type)
	require.NotNil(t, event.Notification)
	assert.Equal(t, uint(3), event.Notification.ID)
	assert.Equal(t, "New message from Sara.", event.Notification.Message)
}
