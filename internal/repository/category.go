package repository

import (
	"context"
	"sort"

	"rewear/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	EnsureNames(ctx context.Context, names []string) error
	IDsByName(ctx context.Context) (map[string]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns categories in CategoryOrder, then any others by name.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := readDB(r.db).WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	SortCategories(categories)
	return categories, nil
}

// SortCategories orders categories by their CategoryOrder priority; unknown
// names follow, alphabetically.
func SortCategories(categories []models.Category) {
	rank := make(map[string]int, len(models.CategoryOrder))
	for i, name := range models.CategoryOrder {
		rank[name] = i
	}
	priority := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(models.CategoryOrder)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		pi, pj := priority(categories[i].Name), priority(categories[j].Name)
		if pi != pj {
			return pi < pj
		}
		return categories[i].Name < categories[j].Name
	})
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// EnsureNames inserts any missing category names; existing rows are kept.
func (r *categoryRepository) EnsureNames(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]models.Category, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Category{Name: name})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) IDsByName(ctx context.Context) (map[string]uint, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make(map[string]uint, len(categories))
	for _, c := range categories {
		ids[c.Name] = c.ID
	}
	return ids, nil
}
