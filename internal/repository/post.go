package repository

import (
	"context"
	"errors"
	"strings"

	"rewear/internal/models"
	"rewear/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, notice *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.PostView, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.PostView, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postViewColumns = `p.*,
	u.name AS seller_name,
	u.location AS seller_location,
	u.rating_avg AS seller_rating_avg,
	u.rating_count AS seller_rating_count,
	c.name AS category_name`

func postViewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("posts p").
		Select(postViewColumns).
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id")
}

// Create inserts post and, when notice is non-nil, the owner's notification
// in the same transaction. notice.UserID is set to the post owner.
func (r *postRepository) Create(ctx context.Context, post *models.Post, notice *models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if notice == nil {
			return nil
		}
		notice.UserID = post.UserID
		return tx.Create(notice).Error
	})
	if err != nil {
		if isForeignKeyError(err) {
			return models.NewValidationError("Invalid category or owner")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.PostView, error) {
	var views []models.PostView
	err := postViewQuery(readDB(r.db).WithContext(ctx)).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Post", nil)
	}
	views[0].ResolveSellerRating()
	return &views[0], nil
}

// List returns at most 200 listings matching filter, newest first.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "List", "posts")
	done := observability.TrackQuery("list", "posts")
	defer done()

	q := postViewQuery(readDB(r.db).WithContext(ctx))
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("(LOWER(p.title) LIKE ? OR LOWER(p.description) LIKE ?)", pattern, pattern)
	}
	if filter.CategoryID != 0 {
		q = q.Where("p.category_id = ?", filter.CategoryID)
	}
	if filter.Size != "" {
		q = q.Where("p.size = ?", filter.Size)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(p.location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.TradeType != "" {
		q = q.Where("p.trade_type = ?", filter.TradeType)
	}
	if filter.UserID != 0 {
		q = q.Where("p.user_id = ?", filter.UserID)
	}

	views := make([]models.PostView, 0)
	err := q.Order("p.created_at DESC").Order("p.id DESC").Limit(maxPostResults).Scan(&views).Error
	observability.EndSpan(span, err)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].ResolveSellerRating()
	}
	return views, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("id").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
