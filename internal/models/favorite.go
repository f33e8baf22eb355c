package models

import "time"

// Favorite marks a post as saved by a user.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
