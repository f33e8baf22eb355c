package repository

import (
	"context"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines persistence operations for saved posts.
type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, postID uint) (bool, error)
	ListPosts(ctx context.Context, userID uint) ([]models.PostView, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Toggle removes the favorite when present and adds it otherwise, in one
// transaction. It reports whether the post is favorited afterwards.
func (r *favoriteRepository) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("Post", nil)
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}
		if err := tx.Create(&models.Favorite{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return false, err
		}
		return false, models.NewInternalError(err)
	}
	return favorited, nil
}

// ListPosts returns the user's favorited posts, most recently saved first.
func (r *favoriteRepository) ListPosts(ctx context.Context, userID uint) ([]models.PostView, error) {
	views := make([]models.PostView, 0)
	err := readDB(r.db).WithContext(ctx).
		Table("favorites f").
		Select(postViewColumns).
		Joins("JOIN posts p ON p.id = f.post_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Order("f.post_id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].ResolveSellerRating()
	}
	return views, nil
}
