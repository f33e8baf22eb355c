package repository

import (
	"context"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message, notice *models.Notification) error
	Threads(ctx context.Context, userID uint) ([]models.Thread, error)
	Conversation(ctx context.Context, userID, otherUserID uint) ([]models.MessageView, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts msg and, when notice is non-nil, the recipient's
// notification in the same transaction.
func (r *messageRepository) Create(ctx context.Context, msg *models.Message, notice *models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if notice == nil {
			return nil
		}
		notice.UserID = msg.ToUserID
		return tx.Create(notice).Error
	})
	if err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Recipient or post", nil)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// The latest message per counterpart is the one with the highest id.
const threadsQuery = `
WITH pairs AS (
	SELECT id,
		CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END AS other_user_id
	FROM messages
	WHERE from_user_id = ? OR to_user_id = ?
),
t AS (
	SELECT other_user_id, MAX(id) AS last_id
	FROM pairs
	GROUP BY other_user_id
)
SELECT t.other_user_id, u.name AS other_name, m.created_at AS last_at, m.content AS last_message
FROM t
JOIN messages m ON m.id = t.last_id
JOIN users u ON u.id = t.other_user_id
ORDER BY m.created_at DESC, m.id DESC`

// Threads returns one row per counterpart, most recent activity first.
func (r *messageRepository) Threads(ctx context.Context, userID uint) ([]models.Thread, error) {
	threads := make([]models.Thread, 0)
	if err := readDB(r.db).WithContext(ctx).Raw(threadsQuery, userID, userID, userID).Scan(&threads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

// Conversation returns up to 500 messages exchanged by the two users, oldest first.
func (r *messageRepository) Conversation(ctx context.Context, userID, otherUserID uint) ([]models.MessageView, error) {
	messages := make([]models.MessageView, 0)
	err := readDB(r.db).WithContext(ctx).
		Table("messages m").
		Select("m.*, fu.name AS from_name, tu.name AS to_name").
		Joins("JOIN users fu ON fu.id = m.from_user_id").
		Joins("JOIN users tu ON tu.id = m.to_user_id").
		Where("(m.from_user_id = ? AND m.to_user_id = ?) OR (m.from_user_id = ? AND m.to_user_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("m.created_at ASC").
		Order("m.id ASC").
		Limit(maxThreadMessages).
		Scan(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
