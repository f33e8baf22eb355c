package service

import (
	"context"

	"rewear/internal/models"
	"rewear/internal/observability"
	"rewear/internal/repository"
)

type FavoriteService struct {
	favorites repository.FavoriteRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Toggle flips the saved state of postID for userID and returns the new state.
func (s *FavoriteService) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	favorited, err := s.favorites.Toggle(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if favorited {
		observability.RecordEvent(observability.EventFavoriteAdded)
	} else {
		observability.RecordEvent(observability.EventFavoriteRemove)
	}
	return favorited, nil
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.PostView, error) {
	return s.favorites.ListPosts(ctx, userID)
}
