package auth

import "errors"

var (
	// ErrTokenMalformed means the token could not be parsed or its signature,
	// algorithm or subject is invalid.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired means the token's expiry is at or before the validation time.
	ErrTokenExpired = errors.New("token has expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("user account is inactive")
	ErrNotVerified        = errors.New("email not verified")

	ErrWeakPassword = errors.New("password must be at least 8 characters and contain uppercase, lowercase, and special characters")

	// ErrAlreadyTaken is wrapped with the colliding field, see ErrEmailTaken
	// and ErrUsernameTaken.
	ErrAlreadyTaken  = errors.New("already taken")
	ErrEmailTaken    = wrapTaken("email already registered")
	ErrUsernameTaken = wrapTaken("username already taken")

	ErrUnsupportedDigest = errors.New("unsupported password digest")
)

type takenError struct {
	msg string
}

func wrapTaken(msg string) error {
	return &takenError{msg: msg}
}

func (e *takenError) Error() string {
	return e.msg
}

func (e *takenError) Unwrap() error {
	return ErrAlreadyTaken
}
