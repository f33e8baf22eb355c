// Package models contains data structures for the marketplace domain.
package models

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a marketplace account. RatingAvg and RatingCount are the
// denormalized aggregate over ratings received and are only written by the
// rating transaction.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Location     string    `gorm:"not null;default:''" json:"location"`
	Contact      string    `gorm:"not null;default:''" json:"contact"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	RatingAvg    float64   `gorm:"not null;default:0" json:"ratingAvg"`
	RatingCount  int       `gorm:"not null;default:0" json:"ratingCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	UserID uint
	Role   string
	Name   string
}
