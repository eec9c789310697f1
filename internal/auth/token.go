package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates signed, time-bounded bearer tokens.
// Tokens carry exactly two claims: sub (user UUID) and exp (unix seconds).
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	clock  Clock
}

// NewTokenService creates a TokenService. algorithm must be one of HS256,
// HS384 or HS512; defaultTTL is used when Issue is called with ttl <= 0.
func NewTokenService(secret, algorithm string, defaultTTL time.Duration, clock Clock) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	if defaultTTL <= 0 {
		return nil, errors.New("default token ttl must be positive")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    defaultTTL,
		clock:  clock,
	}, nil
}

// DefaultTTL returns the lifetime used when Issue is called without one.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID that expires ttl from now. exp has
// whole-second precision and is rounded up, so a token never expires
// before now+ttl and may outlive it by under a second.
func (s *TokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	expiresAt := s.clock.Now().Add(ttl)
	if expiresAt.Nanosecond() != 0 {
		expiresAt = expiresAt.Truncate(time.Second).Add(time.Second)
	}

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the token's subject.
// It fails with ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) Validate(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a uuid", ErrTokenMalformed)
	}

	return userID, nil
}
