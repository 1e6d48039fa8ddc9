package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor baked into every digest.
const PasswordHashCost = 10

// HashPassword will generate a password hash. The plaintext is trimmed of
// surrounding whitespace before hashing; ComparePasswordAndHash trims the
// same way, or comparisons would silently fail.
func HashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", ErrEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password.
func ComparePasswordAndHash(password, hash string) error {
	password = strings.TrimSpace(password)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
