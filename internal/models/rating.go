package models

import "time"

// MaxRatingCommentLen caps the stored comment length in characters.
const MaxRatingCommentLen = 300

// Rating is a star rating one user gives another.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RaterID   uint      `gorm:"not null;index" json:"raterId"`
	RateeID   uint      `gorm:"not null;index" json:"rateeId"`
	Stars     int       `gorm:"not null" json:"stars"`
	Comment   string    `gorm:"not null;default:''" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingSummary is the aggregate persisted on the ratee.
type RatingSummary struct {
	Average float64 `json:"ratingAvg"`
	Count   int     `json:"ratingCount"`
}
