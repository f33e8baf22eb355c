package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the bulk seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumRatings  int
	NumMessages int
	ShouldClean bool
	// Seed makes a run reproducible. Zero uses the clock.
	Seed       int64
	SkipBcrypt bool
}

// Report counts what a Seed run created.
type Report struct {
	Users     int
	Posts     int
	Favorites int
	Messages  int
	Ratings   int
}

// Seed populates the database with generated users, listings, favorites,
// messages and ratings.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Report, error) {
	log.Println("Starting database seed...")

	if opts.ShouldClean {
		if err := clearData(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}
	if opts.NumUsers < 2 && (opts.NumMessages > 0 || opts.NumRatings > 0) {
		return nil, errors.New("messages and ratings need at least 2 users")
	}
	if opts.NumUsers < 1 && opts.NumPosts > 0 {
		return nil, errors.New("posts need at least 1 user")
	}

	if err := Categories(db); err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	f := NewFactory(db, FactoryOptions{Seed: opts.Seed, SkipBcrypt: opts.SkipBcrypt})
	report := &Report{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, u)
		if (i+1)%100 == 0 {
			log.Printf("Created %d users...", i+1)
		}
	}
	report.Users = len(users)
	log.Printf("✓ %d users created", report.Users)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		owner := users[f.faker.Number(0, len(users)-1)]
		category := categories[f.faker.Number(0, len(categories)-1)]
		categoryID := category.ID
		posts = append(posts, f.BuildPost(owner, category.Name, &categoryID))
	}
	if err := f.CreatePostsBatch(ctx, posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	report.Posts = len(posts)
	log.Printf("✓ %d posts created", report.Posts)

	// Roughly one favorite per listing, never on one's own listing.
	if len(users) > 1 {
		seen := make(map[[2]uint]bool)
		for _, p := range posts {
			u := users[f.faker.Number(0, len(users)-1)]
			key := [2]uint{u.ID, p.ID}
			if u.ID == p.UserID || seen[key] {
				continue
			}
			seen[key] = true
			if err := f.Favorite(ctx, u.ID, p.ID); err != nil {
				return nil, fmt.Errorf("failed to create favorites: %w", err)
			}
			report.Favorites++
		}
		log.Printf("✓ %d favorites created", report.Favorites)
	}

	for i := 0; i < opts.NumMessages; i++ {
		from, to := f.pickPair(users)
		var postID *uint
		if len(posts) > 0 && f.faker.Bool() {
			id := posts[f.faker.Number(0, len(posts)-1)].ID
			postID = &id
		}
		if _, err := f.CreateMessage(ctx, from, to, postID); err != nil {
			return nil, fmt.Errorf("failed to create messages: %w", err)
		}
		report.Messages++
	}
	if opts.NumMessages > 0 {
		log.Printf("✓ %d messages created", report.Messages)
	}

	for i := 0; i < opts.NumRatings; i++ {
		rater, ratee := f.pickPair(users)
		if _, err := f.CreateRating(ctx, rater, ratee); err != nil {
			return nil, fmt.Errorf("failed to create ratings: %w", err)
		}
		report.Ratings++
	}
	if opts.NumRatings > 0 {
		log.Printf("✓ %d ratings created", report.Ratings)
	}

	log.Println("Database seeding completed successfully")
	return report, nil
}

// pickPair returns two distinct users.
func (f *Factory) pickPair(users []*models.User) (*models.User, *models.User) {
	i := f.faker.Number(0, len(users)-1)
	j := f.faker.Number(0, len(users)-2)
	if j >= i {
		j++
	}
	return users[i], users[j]
}

// clearData removes all marketplace rows except categories, children first.
func clearData(ctx context.Context, db *gorm.DB) error {
	log.Println("Clearing existing data...")
	tables := []string{"ratings", "notifications", "messages", "favorites", "posts", "users"}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
