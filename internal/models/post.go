package models

import (
	"math"
	"time"
)

// Trade types a listing can carry.
const (
	TradeTypeSale     = "sale"
	TradeTypeExchange = "exchange"
	TradeTypeFree     = "free"
)

// ValidTradeType reports whether t is one of the three trade type literals.
func ValidTradeType(t string) bool {
	switch t {
	case TradeTypeSale, TradeTypeExchange, TradeTypeFree:
		return true
	}
	return false
}

// Post is a marketplace listing.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null;default:''" json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	TradeType   string    `gorm:"not null" json:"tradeType"`
	Size        string    `gorm:"not null;default:''" json:"size"`
	Condition   string    `gorm:"column:item_condition;not null;default:''" json:"condition"`
	CategoryID  *uint     `gorm:"index" json:"categoryId"`
	Location    string    `gorm:"not null;default:''" json:"location"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''" json:"imageUrl"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

// PostView is a listing joined with its seller and category.
type PostView struct {
	Post
	SellerName        string   `json:"sellerName"`
	SellerLocation    string   `json:"sellerLocation"`
	SellerRatingAvg   float64  `json:"-"`
	SellerRatingCount int      `json:"-"`
	SellerRating      *float64 `gorm:"-" json:"sellerRating"`
	CategoryName      *string  `json:"categoryName"`
}

// ResolveSellerRating fills SellerRating from the seller aggregate,
// rounded to one decimal and left nil when the seller has no ratings.
func (v *PostView) ResolveSellerRating() {
	if v.SellerRatingCount <= 0 {
		v.SellerRating = nil
		return
	}
	r := math.Round(v.SellerRatingAvg*10) / 10
	v.SellerRating = &r
}

// PostFilter narrows a listing search. Zero values are ignored.
type PostFilter struct {
	Query      string
	CategoryID uint
	Size       string
	Location   string
	TradeType  string
	UserID     uint
}
