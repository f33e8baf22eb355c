package service

import (
	"context"
	"math"

	"rewear/internal/models"
	"rewear/internal/observability"
	"rewear/internal/repository"
)

type RatingService struct {
	ratings repository.RatingRepository
}

type RateInput struct {
	RaterID uint
	RateeID uint
	Stars   float64
	Comment string
}

func NewRatingService(ratings repository.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings}
}

// Rate records a rating and returns the ratee's refreshed aggregate. Stars
// are rounded to the nearest whole star; comments are cut to 300 characters.
func (s *RatingService) Rate(ctx context.Context, in RateInput) (*models.RatingSummary, error) {
	if math.IsNaN(in.Stars) || math.IsInf(in.Stars, 0) || in.Stars < 1 || in.Stars > 5 {
		return nil, models.NewValidationError("stars must be 1..5")
	}
	if in.RateeID == 0 {
		return nil, models.NewValidationError("rateeId required")
	}
	if in.RaterID == in.RateeID {
		return nil, models.NewValidationError("cannot rate yourself")
	}

	comment := in.Comment
	if runes := []rune(comment); len(runes) > models.MaxRatingCommentLen {
		comment = string(runes[:models.MaxRatingCommentLen])
	}

	summary, err := s.ratings.CreateAndRecompute(ctx, &models.Rating{
		RaterID: in.RaterID,
		RateeID: in.RateeID,
		Stars:   int(math.Round(in.Stars)),
		Comment: comment,
	})
	if err != nil {
		return nil, err
	}
	observability.RecordEvent(observability.EventRatingCreated)
	return summary, nil
}
