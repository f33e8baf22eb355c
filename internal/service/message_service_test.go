package service

import (
	"context"
	"testing"

	"rewear/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Send(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Name: "Baha'a"}, nil
	}
	users.existsFn = func(_ context.Context, id uint) (bool, error) { return id == 2, nil }

	t.Run("stores message and notifies recipient", func(t *testing.T) {
		t.Parallel()
		pub := &publisherStub{}
		var notice *models.Notification
		msgs := &messageRepoStub{createFn: func(_ context.Context, m *models.Message, n *models.Notification) error {
			m.ID = 11
			n.UserID = m.ToUserID
			notice = n
			return nil
		}}
		svc := NewMessageService(msgs, users, &postRepoStub{}, pub)

		msg, err := svc.Send(context.Background(), SendMessageInput{FromUserID: 1, ToUserID: 2, Content: "hi", PostID: uintPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, uint(11), msg.ID)
		require.NotNil(t, notice)
		assert.Equal(t, uint(2), notice.UserID)
		assert.Equal(t, models.NotificationTypeMessage, notice.Type)
		assert.Equal(t, "New message from Baha'a.", notice.Message)
		assert.Len(t, pub.published, 1)
	})

	t.Run("falls back to someone when sender lookup fails", func(t *testing.T) {
		t.Parallel()
		anon := noopUserRepo()
		var notice *models.Notification
		msgs := &messageRepoStub{createFn: func(_ context.Context, _ *models.Message, n *models.Notification) error {
			notice = n
			return nil
		}}
		_, err := NewMessageService(msgs, anon, &postRepoStub{}, nil).
			Send(context.Background(), SendMessageInput{FromUserID: 1, ToUserID: 2, Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "New message from someone.", notice.Message)
	})

	t.Run("required fields", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(&messageRepoStub{}, users, &postRepoStub{}, nil)
		_, err := svc.Send(context.Background(), SendMessageInput{FromUserID: 1, ToUserID: 2, Content: "   "})
		assertErrorCode(t, err, models.CodeValidation, "toUserId/content required")
		_, err = svc.Send(context.Background(), SendMessageInput{FromUserID: 1, Content: "hi"})
		assertErrorCode(t, err, models.CodeValidation, "toUserId/content required")
	})

	t.Run("unknown recipient", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(&messageRepoStub{}, users, &postRepoStub{}, nil)
		_, err := svc.Send(context.Background(), SendMessageInput{FromUserID: 1, ToUserID: 77, Content: "hi"})
		assertErrorCode(t, err, models.CodeNotFound, "Recipient not found")
	})

	t.Run("unknown post", func(t *testing.T) {
		t.Parallel()
		posts := &postRepoStub{existsFn: func(context.Context, uint) (bool, error) { return false, nil }}
		svc := NewMessageService(&messageRepoStub{}, users, posts, nil)
		_, err := svc.Send(context.Background(), SendMessageInput{FromUserID: 1, ToUserID: 2, Content: "hi", PostID: uintPtr(8)})
		assertErrorCode(t, err, models.CodeNotFound, "Post not found")
	})
}

func TestMessageService_Conversation_RequiresCounterpart(t *testing.T) {
	t.Parallel()
	svc := NewMessageService(&messageRepoStub{}, noopUserRepo(), &postRepoStub{}, nil)
	_, err := svc.Conversation(context.Background(), 1, 0)
	assertErrorCode(t, err, models.CodeValidation, "withUserId required")

	msgs, err := svc.Conversation(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
}
