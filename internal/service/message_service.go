package service

import (
	"context"
	"fmt"
	"strings"

	"rewear/internal/models"
	"rewear/internal/observability"
	"rewear/internal/repository"
)

type MessageService struct {
	messages  repository.MessageRepository
	users     repository.UserRepository
	posts     repository.PostRepository
	publisher NotificationPublisher
}

type SendMessageInput struct {
	FromUserID uint
	ToUserID   uint
	Content    string
	PostID     *uint
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	posts repository.PostRepository,
	publisher NotificationPublisher,
) *MessageService {
	return &MessageService{messages: messages, users: users, posts: posts, publisher: publisher}
}

// Send stores the message together with a notification for the recipient.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.ToUserID == 0 || strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("toUserId/content required")
	}

	ok, err := s.users.Exists(ctx, in.ToUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "Recipient not found"}
	}

	if in.PostID != nil && *in.PostID == 0 {
		in.PostID = nil
	}
	if in.PostID != nil {
		ok, err := s.posts.Exists(ctx, *in.PostID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NewNotFoundError("Post", nil)
		}
	}

	senderName := "someone"
	if sender, err := s.users.GetByID(ctx, in.FromUserID); err == nil && sender.Name != "" {
		senderName = sender.Name
	}

	msg := &models.Message{
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		PostID:     in.PostID,
		Content:    in.Content,
	}
	notice := &models.Notification{
		Type:    models.NotificationTypeMessage,
		Message: fmt.Sprintf("New message from %s.", senderName),
	}
	if err := s.messages.Create(ctx, msg, notice); err != nil {
		return nil, err
	}

	observability.RecordEvent(observability.EventMessageSent)
	publish(ctx, s.publisher, notice)
	return msg, nil
}

func (s *MessageService) Threads(ctx context.Context, userID uint) ([]models.Thread, error) {
	return s.messages.Threads(ctx, userID)
}

func (s *MessageService) Conversation(ctx context.Context, userID, withUserID uint) ([]models.MessageView, error) {
	if withUserID == 0 {
		return nil, models.NewValidationError("withUserId required")
	}
	return s.messages.Conversation(ctx, userID, withUserID)
}
