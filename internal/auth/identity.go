package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserFinder looks up live (not soft-deleted) users. Implementations return
// gorm.ErrRecordNotFound when no live user matches.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// IdentityResolver turns credentials into an authenticated user.
type IdentityResolver struct {
	users  UserFinder
	tokens *TokenService
	hasher PasswordHasher
	log    *zap.Logger
}

func NewIdentityResolver(users UserFinder, tokens *TokenService, hasher PasswordHasher, log *zap.Logger) *IdentityResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentityResolver{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		log:    log,
	}
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *models.User
}

// Authenticate resolves a bearer token to a live, active user.
//
// Verification status is not checked here: it only gates Login.
func (r *IdentityResolver) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := r.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		r.log.Debug("rejecting bearer token", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// Login checks an email/password pair and issues an access token.
// Unknown email, missing digest and wrong password all yield
// ErrInvalidCredentials.
func (r *IdentityResolver) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	ok, err := r.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		r.log.Error("password digest could not be verified", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := r.tokens.Issue(user.ID, r.tokens.DefaultTTL())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
