package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// UserService serves the user directory consumed by assignment pickers.
// All projections are public shapes; password hashes never leave the
// repository layer.
type UserService struct {
	users repository.UserRepository
	cache *UserCache
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, cache *UserCache) *UserService {
	return &UserService{users: users, cache: cache}
}

// ListUsers returns every account as a public projection, ordered by email.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	if cached, ok := s.cache.GetList(ctx); ok {
		return cached, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}

	s.cache.SetList(ctx, result)
	return result, nil
}

// GetUser returns a single public projection.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.PublicUser, error) {
	if cached, ok := s.cache.GetUser(ctx, id); ok {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}

	public := user.Public()
	s.cache.SetUser(ctx, public)
	return &public, nil
}
