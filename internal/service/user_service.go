package service

import (
	"context"
	"strings"

	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/validation"
)

// UserService covers the caller's own account and public profiles.
type UserService struct {
	userRepo repository.UserRepository
}

type ChangePasswordInput struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateName(ctx context.Context, userID uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("Name required")
	}
	return s.userRepo.UpdateName(ctx, userID, name)
}

func (s *UserService) UpdateEmail(ctx context.Context, userID uint, email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return models.NewValidationError("Email required")
	}
	if !validation.IsValidEmail(email) {
		return models.NewValidationError("Invalid email")
	}
	return s.userRepo.UpdateEmail(ctx, userID, email)
}

func (s *UserService) UpdateContact(ctx context.Context, userID uint, contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return models.NewValidationError("Phone required")
	}
	if !validation.IsValidPhone(contact) {
		return models.NewValidationError("Phone number must start with +962 and contain 9 digits after it")
	}
	return s.userRepo.UpdateContact(ctx, userID, contact)
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Missing fields")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError("Password too short")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, in.OldPassword) {
		return models.NewUnauthorizedError("Old password incorrect")
	}

	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
}
