package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles registration, login and account verification.
type AuthService struct {
	userRepo repository.UserRepository
	resolver *auth.IdentityResolver
	hasher   auth.PasswordHasher
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, resolver *auth.IdentityResolver, hasher auth.PasswordHasher, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		resolver: resolver,
		hasher:   hasher,
		log:      log.Named("auth"),
	}
}

// SignupInput represents the information needed to register a user.
// Password and Username are optional.
type SignupInput struct {
	Email    string
	Username *string
	Password *string
}

// Signup registers a new active, unverified user.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if err := ensureEmailFree(ctx, s.userRepo, email); err != nil {
		return nil, err
	}

	username := trimmedOrNil(input.Username)
	if username != nil {
		if err := ensureUsernameFree(ctx, s.userRepo, *username); err != nil {
			return nil, err
		}
	}

	user := &models.User{
		Email:      email,
		Username:   username,
		IsActive:   true,
		IsVerified: false,
		SystemRole: models.SystemRoleUser,
	}

	if input.Password != nil && *input.Password != "" {
		digest, err := hashPassword(s.hasher, *input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &digest
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or username", auth.ErrAlreadyTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	result, err := s.resolver.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", result.User.ID.String()))
	return result, nil
}

// VerifyUser marks the user with the given email as verified. It reports
// whether the user was already verified.
func (s *AuthService) VerifyUser(ctx context.Context, email string) (alreadyVerified bool, err error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsVerified {
		return true, nil
	}

	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("failed to verify user: %w", err)
	}

	s.log.Info("user verified", zap.String("user_id", user.ID.String()))
	return false, nil
}

// BootstrapAdmin promotes the live user with the given email to
// system_admin and marks them verified. A missing user is logged and
// ignored so that the server can start before the account exists.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("bootstrap admin not found; skipping promotion", zap.String("email", email))
			return nil
		}
		return fmt.Errorf("failed to find bootstrap admin: %w", err)
	}

	if user.IsSystemAdmin() && user.IsVerified {
		return nil
	}

	user.SystemRole = models.SystemRoleAdmin
	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to promote bootstrap admin: %w", err)
	}

	s.log.Info("bootstrap admin promoted", zap.String("user_id", user.ID.String()))
	return nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string) error {
	_, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return auth.ErrEmailTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func ensureUsernameFree(ctx context.Context, users repository.UserRepository, username string) error {
	_, err := users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return auth.ErrUsernameTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check username: %w", err)
	}
}

func hashPassword(hasher auth.PasswordHasher, password string) (string, error) {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
