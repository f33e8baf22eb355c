// Package bootstrap wires the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rewear/internal/cache"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/models"
	"rewear/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedCategories bool
	SeedDemo       bool
}

// OptionsFromConfig seeds categories always and demo data when configured.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{SeedCategories: true, SeedDemo: cfg.SeedDemo}
}

// InitRuntime connects to DB and Redis and runs startup seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := Prepare(context.Background(), cfg, db, opts); err != nil {
		return nil, nil, err
	}
	return db, r, nil
}

// Prepare runs the seeding and admin promotion steps against an open database.
func Prepare(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) error {
	if opts.SeedCategories || opts.SeedDemo {
		if err := seed.Categories(db); err != nil {
			return err
		}
	}
	if opts.SeedDemo {
		if err := seed.Demo(ctx, db); err != nil {
			return err
		}
	}
	if err := ensureAdmin(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to promote admin: %w", err)
	}
	return nil
}

// ensureAdmin grants the admin role to the account named by ADMIN_EMAIL.
// The account must already exist.
func ensureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		return nil
	}

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("admin bootstrap skipped: no account for %s", email)
		return nil
	case err != nil:
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleAdmin).Error; err != nil {
		return err
	}
	log.Printf("admin role granted to user ID %d (%s)", user.ID, email)
	return nil
}
