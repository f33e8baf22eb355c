package repository

import (
	"context"
	"errors"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateName(ctx context.Context, id uint, name string) error
	UpdateEmail(ctx context.Context, id uint, email string) error
	UpdateContact(ctx context.Context, id uint, contact string) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no account uses email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.updateColumn(ctx, id, "name", name)
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uint, email string) error {
	err := r.updateColumn(ctx, id, "email", email)
	if err != nil && isUniqueConstraintError(errors.Unwrap(err)) {
		return models.NewConflictError("Email already in use")
	}
	return err
}

func (r *userRepository) UpdateContact(ctx context.Context, id uint, contact string) error {
	return r.updateColumn(ctx, id, "contact", contact)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, id, "password_hash", hash)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
