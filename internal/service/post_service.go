package service

import (
	"context"
	"strings"

	"rewear/internal/models"
	"rewear/internal/observability"
	"rewear/internal/repository"
)

// PostCreatedMessage is the owner notification written with every new post.
const PostCreatedMessage = "Your post was created successfully."

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	publisher    NotificationPublisher
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Description string
	Price       float64
	TradeType   string
	Size        string
	Condition   string
	CategoryID  *uint
	Location    string
	ImageURL    string
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	publisher NotificationPublisher,
) *PostService {
	return &PostService{postRepo: postRepo, categoryRepo: categoryRepo, publisher: publisher}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.TradeType == "" {
		return nil, models.NewValidationError("title and tradeType required")
	}
	if !models.ValidTradeType(in.TradeType) {
		return nil, models.NewValidationError("tradeType must be sale, exchange or free")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("price must be non-negative")
	}

	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			in.CategoryID = nil
		} else {
			ok, err := s.categoryRepo.Exists(ctx, *in.CategoryID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, models.NewValidationError("category not found")
			}
		}
	}

	post := &models.Post{
		UserID:      in.UserID,
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		TradeType:   in.TradeType,
		Size:        in.Size,
		Condition:   in.Condition,
		CategoryID:  in.CategoryID,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
	}
	notice := &models.Notification{
		Type:    models.NotificationTypePost,
		Message: PostCreatedMessage,
	}
	if err := s.postRepo.Create(ctx, post, notice); err != nil {
		return nil, err
	}

	observability.RecordEvent(observability.EventPostCreated)
	publish(ctx, s.publisher, notice)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	return s.postRepo.List(ctx, filter)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, &models.AppError{Code: models.CodeNotFound, Message: "not found"}
		}
		return nil, err
	}
	return post, nil
}
