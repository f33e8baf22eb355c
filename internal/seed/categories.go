package seed

import (
	"context"
	"fmt"

	"rewear/internal/models"
	"rewear/internal/repository"

	"gorm.io/gorm"
)

// Categories inserts the built-in categories. Existing rows are kept, so it
// is safe to call on every start.
func Categories(db *gorm.DB) error {
	repo := repository.NewCategoryRepository(db)
	if err := repo.EnsureNames(context.Background(), models.CategoryOrder); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
