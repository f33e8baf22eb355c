package service

import (
	"context"
	"strings"

	"rewear/internal/models"
	"rewear/internal/observability"
	"rewear/internal/repository"
	"rewear/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor for stored passwords.
const PasswordHashCost = 10

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService handles signup, login and the demo password reset.
type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Location string
	Contact  string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := validation.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("name/email/password required")
	}
	if !validation.IsValidEmail(email) {
		return nil, models.NewValidationError("Invalid email")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError("Password too short")
	}

	phone := strings.TrimSpace(in.Contact)
	if phone == "" {
		return nil, models.NewValidationError("phone number required")
	}
	if !validation.IsValidPhone(phone) {
		return nil, models.NewValidationError("invalid phone number")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Location:     strings.TrimSpace(in.Location),
		Contact:      phone,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.RecordEvent(observability.EventSignup)
	return &AuthResult{Token: token, User: user}, nil
}

// Login answers the same 401 for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("email/password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.PasswordHash, in.Password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.RecordEvent(observability.EventLogin)
	return &AuthResult{Token: token, User: user}, nil
}

// ResetPassword sets a new password for email without proof of ownership.
// It is only reachable while the demo reset flag is on.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = validation.NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return models.NewValidationError("Missing fields")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError("Password too short")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return &models.AppError{Code: models.CodeNotFound, Message: "No account found for this email"}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}
	observability.RecordEvent(observability.EventPasswordReset)
	return nil
}
