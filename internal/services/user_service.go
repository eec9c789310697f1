package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"github.com/yukikurage/taskforge-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService manages profiles and, for system admins, other accounts.
type UserService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher auth.PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log.Named("users"),
	}
}

// UpdateProfileInput holds a partial profile update. A null Password
// removes the password login path.
type UpdateProfileInput struct {
	Email    *string
	Username utils.Nullable[string]
	Password utils.Nullable[string]
}

// UpdateProfile applies input to user.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if err := ensureEmailFree(ctx, s.userRepo, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if input.Username.Set {
		username := trimmedOrNil(input.Username.Value)
		if username != nil && (user.Username == nil || *username != *user.Username) {
			if err := ensureUsernameFree(ctx, s.userRepo, *username); err != nil {
				return nil, err
			}
		}
		user.Username = username
	}

	if input.Password.Set {
		if input.Password.Value == nil || *input.Password.Value == "" {
			user.PasswordHash = nil
		} else {
			digest, err := hashPassword(s.hasher, *input.Password.Value)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = &digest
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or username", auth.ErrAlreadyTaken)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteAccount deactivates and soft deletes user.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User) error {
	if err := s.userRepo.SoftDelete(ctx, user); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("user deleted", zap.String("user_id", user.ID.String()))
	return nil
}

// ListUsers returns a page of live users.
func (s *UserService) ListUsers(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// AdminUpdateInput holds the account flags a system admin may change.
type AdminUpdateInput struct {
	SystemRole *models.SystemRole
	IsActive   *bool
	IsVerified *bool
}

// AdminUpdateUser changes role and status flags of another user.
func (s *UserService) AdminUpdateUser(ctx context.Context, actor *models.User, targetID uuid.UUID, input AdminUpdateInput) (*models.User, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == actor.ID {
		demoting := input.SystemRole != nil && *input.SystemRole != models.SystemRoleAdmin
		deactivating := input.IsActive != nil && !*input.IsActive
		if demoting || deactivating {
			return nil, ErrCannotModifySelf
		}
	}

	if input.SystemRole != nil {
		target.SystemRole = *input.SystemRole
	}
	if input.IsActive != nil {
		target.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		target.IsVerified = *input.IsVerified
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("user updated by admin",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", target.ID.String()),
		zap.String("system_role", string(target.SystemRole)),
		zap.Bool("is_active", target.IsActive),
	)
	return target, nil
}
