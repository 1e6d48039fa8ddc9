package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/goliatone/go-errors"
)

// SecureTokenBytes is the entropy of every opaque verification/reset token.
// 32 random bytes encode to 64 hex characters.
const SecureTokenBytes = 32

// GenerateSecureToken returns an opaque single-use token sourced from the
// platform CSPRNG. Collisions are treated as negligible; no uniqueness check
// is made against the store.
func GenerateSecureToken() (string, error) {
	buf := make([]byte, SecureTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to read random bytes")
	}
	return hex.EncodeToString(buf), nil
}
