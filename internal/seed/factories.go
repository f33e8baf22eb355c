// Package seed provides helpers to create demo and bulk data for the
// marketplace database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"rewear/internal/models"
	"rewear/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

var (
	itemsByCategory = map[string][]string{
		"Men":         {"Oxford Shirt", "Polo Shirt", "Hoodie", "Chinos"},
		"Women":       {"Blouse", "Cardigan", "Skirt", "Knit Sweater"},
		"Kids":        {"Kids Shoes", "Kids T-Shirt", "School Bag", "Rain Jacket"},
		"Jackets":     {"Denim Jacket", "Puffer Jacket", "Leather Jacket", "Windbreaker"},
		"Shoes":       {"Sneakers", "Running Shoes", "Boots", "Sandals"},
		"Bags":        {"Leather Bag", "Backpack", "Tote Bag", "Crossbody Bag"},
		"Accessories": {"Belt", "Scarf", "Cap", "Sunglasses"},
		"Jeans":       {"Slim Jeans", "Straight Jeans", "Mom Jeans", "Denim Shorts"},
		"Dresses":     {"Summer Dress", "Evening Dress", "Maxi Dress", "Shirt Dress"},
	}

	conditions = []string{"New", "Like new", "Very good", "Good", "Fair"}
	sizes      = []string{"XS", "S", "M", "L", "XL", "One Size", "30", "32", "38", "42"}
	locations  = []string{"Amman", "Irbid", "Zarqa", "Aqaba", "Madaba", "Salt", "Jerash"}
	tradeTypes = []string{models.TradeTypeSale, models.TradeTypeSale, models.TradeTypeExchange, models.TradeTypeFree}
)

// FactoryOptions tunes generated data.
type FactoryOptions struct {
	// Seed makes the generated data reproducible. Zero uses the clock.
	Seed int64
	// MaxDays spreads created_at over the last MaxDays days.
	MaxDays int
	// SkipBcrypt stores a fast low-cost hash. Use for large local datasets.
	SkipBcrypt bool
}

// Factory builds marketplace entities and persists them. Messages and
// ratings go through the repositories so notifications and rating
// aggregates stay consistent.
type Factory struct {
	db        *gorm.DB
	opts      FactoryOptions
	faker     *gofakeit.Faker
	seq       int
	hash      string
	favorites repository.FavoriteRepository
	messages  repository.MessageRepository
	ratings   repository.RatingRepository
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:        db,
		opts:      opts,
		faker:     gofakeit.New(seed),
		favorites: repository.NewFavoriteRepository(db),
		messages:  repository.NewMessageRepository(db),
		ratings:   repository.NewRatingRepository(db),
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", err
	}
	f.hash = string(hash)
	return f.hash, nil
}

// Phone returns a random number in the +962 format accepted at signup.
func (f *Factory) Phone() string {
	return "+9627" + f.faker.Numerify("########")
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	f.seq++
	first := f.faker.FirstName()
	last := f.faker.LastName()
	user := &models.User{
		Name:         first + " " + last,
		Email:        fmt.Sprintf("%s.%s.%d@rewear.test", strings.ToLower(first), strings.ToLower(last), f.seq),
		PasswordHash: hash,
		Location:     f.faker.RandomString(locations),
		Contact:      f.Phone(),
		Role:         models.RoleUser,
	}
	user.Email = strings.ReplaceAll(user.Email, " ", "")

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return user, nil
}

// BuildPost constructs a listing owned by owner in the named category but
// does not persist it. Non-sale listings carry a zero price.
func (f *Factory) BuildPost(owner *models.User, category string, categoryID *uint, overrides ...func(*models.Post)) *models.Post {
	items, ok := itemsByCategory[category]
	if !ok {
		items = itemsByCategory["Accessories"]
	}
	item := f.faker.RandomString(items)
	condition := f.faker.RandomString(conditions)
	tradeType := f.faker.RandomString(tradeTypes)

	post := &models.Post{
		UserID:      owner.ID,
		Title:       fmt.Sprintf("%s %s - %s", f.faker.Color(), item, condition),
		Description: f.faker.Sentence(12),
		TradeType:   tradeType,
		Size:        f.faker.RandomString(sizes),
		Condition:   condition,
		CategoryID:  categoryID,
		Location:    owner.Location,
		ImageURL:    fmt.Sprintf("/assets/items/item%d.svg", f.faker.Number(1, 3)),
		CreatedAt:   f.pastTime(),
	}
	if tradeType == models.TradeTypeSale {
		post.Price = math.Round(f.faker.Float64Range(1, 60))
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.WithContext(ctx).CreateInBatches(posts, 100).Error
}

// Favorite marks post as saved by user.
func (f *Factory) Favorite(ctx context.Context, userID, postID uint) error {
	_, err := f.favorites.Toggle(ctx, userID, postID)
	return err
}

// CreateMessage sends a message from one user to another together with the
// recipient's notification.
func (f *Factory) CreateMessage(ctx context.Context, from, to *models.User, postID *uint) (*models.Message, error) {
	msg := &models.Message{
		FromUserID: from.ID,
		ToUserID:   to.ID,
		PostID:     postID,
		Content:    f.faker.Sentence(f.faker.Number(3, 14)),
	}
	notice := &models.Notification{
		Type:    models.NotificationTypeMessage,
		Message: fmt.Sprintf("New message from %s.", from.Name),
	}
	if err := f.messages.Create(ctx, msg, notice); err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateRating stores a random rating and refreshes the ratee's aggregate.
func (f *Factory) CreateRating(ctx context.Context, rater, ratee *models.User) (*models.RatingSummary, error) {
	if rater.ID == ratee.ID {
		return nil, fmt.Errorf("user %d cannot rate themselves", rater.ID)
	}
	rating := &models.Rating{
		RaterID: rater.ID,
		RateeID: ratee.ID,
		// Skewed toward good reviews.
		Stars:   f.faker.RandomInt([]int{3, 4, 4, 5, 5, 5, 2, 1}),
		Comment: f.faker.Sentence(f.faker.Number(2, 10)),
	}
	return f.ratings.CreateAndRecompute(ctx, rating)
}

func (f *Factory) pastTime() time.Time {
	days := f.faker.Number(0, f.opts.MaxDays-1)
	hours := f.faker.Number(0, 23)
	mins := f.faker.Number(0, 59)
	return time.Now().Add(-time.Duration(days)*24*time.Hour - time.Duration(hours)*time.Hour - time.Duration(mins)*time.Minute)
}
