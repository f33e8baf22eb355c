package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rewear/internal/models"

	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn            func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn         func(ctx context.Context, email string) (*models.User, error)
	existsFn             func(ctx context.Context, id uint) (bool, error)
	createFn             func(ctx context.Context, user *models.User) error
	updateNameFn         func(ctx context.Context, id uint, name string) error
	updateEmailFn        func(ctx context.Context, id uint, email string) error
	updateContactFn      func(ctx context.Context, id uint, contact string) error
	updatePasswordHashFn func(ctx context.Context, id uint, hash string) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", nil)
		},
		getByEmailFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		existsFn:             func(context.Context, uint) (bool, error) { return true, nil },
		createFn:             func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		updateNameFn:         func(context.Context, uint, string) error { return nil },
		updateEmailFn:        func(context.Context, uint, string) error { return nil },
		updateContactFn:      func(context.Context, uint, string) error { return nil },
		updatePasswordHashFn: func(context.Context, uint, string) error { return nil },
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateName(ctx context.Context, id uint, name string) error {
	return s.updateNameFn(ctx, id, name)
}
func (s *userRepoStub) UpdateEmail(ctx context.Context, id uint, email string) error {
	return s.updateEmailFn(ctx, id, email)
}
func (s *userRepoStub) UpdateContact(ctx context.Context, id uint, contact string) error {
	return s.updateContactFn(ctx, id, contact)
}
func (s *userRepoStub) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return s.updatePasswordHashFn(ctx, id, hash)
}

type postRepoStub struct {
	createFn  func(ctx context.Context, post *models.Post, notice *models.Notification) error
	getByIDFn func(ctx context.Context, id uint) (*models.PostView, error)
	listFn    func(ctx context.Context, filter models.PostFilter) ([]models.PostView, error)
	existsFn  func(ctx context.Context, id uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, notice *models.Notification) error {
	if s.createFn == nil {
		post.ID = 1
		notice.UserID = post.UserID
		return nil
	}
	return s.createFn(ctx, post, notice)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.PostView, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	if s.existsFn == nil {
		return true, nil
	}
	return s.existsFn(ctx, id)
}

type categoryRepoStub struct {
	known map[uint]bool
}

func (s *categoryRepoStub) List(context.Context) ([]models.Category, error) { return nil, nil }
func (s *categoryRepoStub) Exists(_ context.Context, id uint) (bool, error) {
	return s.known[id], nil
}
func (s *categoryRepoStub) EnsureNames(context.Context, []string) error { return nil }
func (s *categoryRepoStub) IDsByName(context.Context) (map[string]uint, error) {
	return map[string]uint{}, nil
}

type messageRepoStub struct {
	createFn func(ctx context.Context, msg *models.Message, notice *models.Notification) error
}

func (s *messageRepoStub) Create(ctx context.Context, msg *models.Message, notice *models.Notification) error {
	if s.createFn == nil {
		msg.ID = 1
		notice.UserID = msg.ToUserID
		return nil
	}
	return s.createFn(ctx, msg, notice)
}
func (s *messageRepoStub) Threads(context.Context, uint) ([]models.Thread, error) { return nil, nil }
func (s *messageRepoStub) Conversation(context.Context, uint, uint) ([]models.MessageView, error) {
	return []models.MessageView{}, nil
}

type ratingRepoStub struct {
	created *models.Rating
	err     error
}

func (s *ratingRepoStub) CreateAndRecompute(_ context.Context, r *models.Rating) (*models.RatingSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = r
	return &models.RatingSummary{Average: float64(r.Stars), Count: 1}, nil
}

type publisherStub struct {
	mu        sync.Mutex
	published []*models.Notification
	err       error
}

func (p *publisherStub) PublishNotification(_ context.Context, n *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
	return p.err
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	require.Equal(t, models.CodeValidation, appErr.Code)
}

func assertErrorCode(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}
