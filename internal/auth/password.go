package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskforge-api/internal/constants"
)

// PasswordSpecialCharacters is the set a password must draw at least one
// character from.
const PasswordSpecialCharacters = `!@#$%^&*(),.?":{}|<>`

// ValidatePasswordStrength enforces the registration password policy:
// at least eight characters with an ASCII uppercase letter, an ASCII
// lowercase letter and a character from PasswordSpecialCharacters. It returns ErrWeakPassword otherwise.
func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < constants.MinPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case strings.ContainsRune(PasswordSpecialCharacters, r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}
