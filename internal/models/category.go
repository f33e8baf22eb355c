package models

// Category groups listings. The display order is fixed by CategoryOrder.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// CategoryOrder is the manual priority used when listing categories.
var CategoryOrder = []string{
	"Men", "Women", "Kids", "Jackets", "Shoes", "Bags", "Accessories", "Jeans", "Dresses",
}
