package repository

import (
	"context"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines persistence operations for user ratings.
type RatingRepository interface {
	CreateAndRecompute(ctx context.Context, rating *models.Rating) (*models.RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// CreateAndRecompute inserts rating and refreshes the ratee's denormalized
// average and count in the same transaction.
func (r *ratingRepository) CreateAndRecompute(ctx context.Context, rating *models.Rating) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", rating.RateeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("User", nil)
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		var agg struct {
			Avg float64
			Cnt int
		}
		if err := tx.Model(&models.Rating{}).
			Select("COALESCE(AVG(stars), 0) AS avg, COUNT(*) AS cnt").
			Where("ratee_id = ?", rating.RateeID).
			Scan(&agg).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", rating.RateeID).Updates(map[string]any{
			"rating_avg":   agg.Avg,
			"rating_count": agg.Cnt,
		}).Error; err != nil {
			return err
		}

		summary = models.RatingSummary{Average: agg.Avg, Count: agg.Cnt}
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &summary, nil
}
