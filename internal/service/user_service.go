package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// UserService coordinates profile edits and admin user management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// UserUpdateInput describes a profile or admin edit. Nil fields are left
// unchanged. Role and AccountKind changes require an admin actor.
type UserUpdateInput struct {
	Name        *string
	Email       *string
	Password    *string
	Role        *domain.Role
	AccountKind *domain.AccountKind
}

// List returns all users. Admin accounts only.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("user management requires an admin account")
	}
	return s.users.List(ctx)
}

// Get returns a user. Ordinary accounts may only read their own profile.
func (s *UserService) Get(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("cannot view another user's profile")
	}
	return s.fetch(ctx, userID)
}

// Update edits a user. Ordinary accounts may only edit their own profile and
// may not change role or account kind.
func (s *UserService) Update(ctx context.Context, actor *domain.User, userID string, input UserUpdateInput) (*domain.User, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("cannot edit another user's profile")
	}
	if (input.Role != nil || input.AccountKind != nil) && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("role changes require an admin account")
	}

	user, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty", nil)
		}
		user.Email = email
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", nil)
		}
		user.Role = *input.Role
	}
	if input.AccountKind != nil {
		if !input.AccountKind.Valid() {
			return nil, apperrors.NewValidationError("unknown account kind", nil)
		}
		user.AccountKind = *input.AccountKind
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes a user. Admin accounts only, and never the actor's own
// account.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID string) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("user management requires an admin account")
	}
	if actor.ID == userID {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return err
	}
	return nil
}

func (s *UserService) fetch(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	return user, nil
}
