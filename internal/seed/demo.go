package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"rewear/internal/models"
	"rewear/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed demo.yml
var demoCatalogYAML []byte

// demoBcryptCost matches the cost used for real signups.
const demoBcryptCost = 10

// DemoCatalog is the showcase data inserted on first run.
type DemoCatalog struct {
	Password string     `yaml:"password"`
	Users    []DemoUser `yaml:"users"`
	Posts    []DemoPost `yaml:"posts"`
}

// DemoUser is a demo account. Key is referenced by DemoPost.Owner.
type DemoUser struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Contact  string `yaml:"contact"`
}

// DemoPost is a demo listing. Category is resolved by name.
type DemoPost struct {
	Owner       string  `yaml:"owner"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	TradeType   string  `yaml:"tradeType"`
	Size        string  `yaml:"size"`
	Condition   string  `yaml:"condition"`
	Category    string  `yaml:"category"`
	Location    string  `yaml:"location"`
	ImageURL    string  `yaml:"imageUrl"`
}

// LoadDemoCatalog parses the embedded demo catalog.
func LoadDemoCatalog() (*DemoCatalog, error) {
	var catalog DemoCatalog
	if err := yaml.Unmarshal(demoCatalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse demo catalog: %w", err)
	}
	if len(catalog.Users) == 0 {
		return nil, fmt.Errorf("demo catalog has no users")
	}
	for _, p := range catalog.Posts {
		if !models.ValidTradeType(p.TradeType) {
			return nil, fmt.Errorf("demo post %q: invalid trade type %q", p.Title, p.TradeType)
		}
	}
	return &catalog, nil
}

// Demo inserts the demo users and listings when the posts table is empty.
// Users are only created when there are none; otherwise the listings are
// assigned to the oldest existing accounts.
func Demo(ctx context.Context, db *gorm.DB) error {
	catalog, err := LoadDemoCatalog()
	if err != nil {
		return err
	}

	var postCount int64
	if err := db.WithContext(ctx).Model(&models.Post{}).Count(&postCount).Error; err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if postCount > 0 {
		return nil
	}

	categoryIDs, err := repository.NewCategoryRepository(db).IDsByName(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owners, err := demoOwners(tx, catalog)
		if err != nil {
			return err
		}

		posts := make([]models.Post, 0, len(catalog.Posts))
		for _, p := range catalog.Posts {
			ownerID, ok := owners[p.Owner]
			if !ok {
				return fmt.Errorf("demo post %q: unknown owner %q", p.Title, p.Owner)
			}
			post := models.Post{
				UserID:      ownerID,
				Title:       p.Title,
				Description: p.Description,
				Price:       p.Price,
				TradeType:   p.TradeType,
				Size:        p.Size,
				Condition:   p.Condition,
				Location:    p.Location,
				ImageURL:    p.ImageURL,
			}
			if id, ok := categoryIDs[p.Category]; ok {
				post.CategoryID = &id
			}
			posts = append(posts, post)
		}
		if len(posts) == 0 {
			return nil
		}
		return tx.Create(&posts).Error
	})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	log.Printf("Seeded demo data (users/password: %s).", catalog.Password)
	return nil
}

// demoOwners maps catalog user keys to user ids, creating the demo users
// when the users table is empty.
func demoOwners(tx *gorm.DB, catalog *DemoCatalog) (map[string]uint, error) {
	var userCount int64
	if err := tx.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return nil, err
	}

	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(catalog.Password), demoBcryptCost)
		if err != nil {
			return nil, err
		}
		for _, u := range catalog.Users {
			user := models.User{
				Name:         u.Name,
				Email:        u.Email,
				PasswordHash: string(hash),
				Location:     u.Location,
				Contact:      u.Contact,
				Role:         models.RoleUser,
			}
			if err := tx.Create(&user).Error; err != nil {
				return nil, err
			}
		}
	}

	var ids []uint
	if err := tx.Model(&models.User{}).Order("id ASC").Limit(len(catalog.Users)).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	owners := make(map[string]uint, len(catalog.Users))
	for i, u := range catalog.Users {
		// Fewer accounts than catalog users: the rest fall back to the last one.
		idx := i
		if idx >= len(ids) {
			idx = len(ids) - 1
		}
		owners[u.Key] = ids[idx]
	}
	return owners, nil
}
