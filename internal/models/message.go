package models

import "time"

// Message is a direct message between two users, optionally about a post.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"fromUserId"`
	ToUserID   uint      `gorm:"not null;index" json:"toUserId"`
	PostID     *uint     `json:"postId"`
	Content    string    `gorm:"not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageView is a message with both participants' names.
type MessageView struct {
	Message
	FromName string `json:"fromName"`
	ToName   string `json:"toName"`
}

// Thread summarizes the conversation with one counterpart.
type Thread struct {
	OtherUserID uint      `json:"otherUserId"`
	OtherName   string    `json:"otherName"`
	LastAt      time.Time `json:"lastAt"`
	LastMessage string    `json:"lastMessage"`
}
