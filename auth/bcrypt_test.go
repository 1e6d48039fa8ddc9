package auth_test

import (
	"testing"

	"github.com/mataure/storefront/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces a hash that verifies", func(t *testing.T) {
		hash, err := auth.HashPassword("s3cret-password")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cret-password", hash)

		err = auth.ComparePasswordAndHash("s3cret-password", hash)
		assert.NoError(t, err)
	})

	t.Run("uses the configured cost", func(t *testing.T) {
		hash, err := auth.HashPassword("s3cret-password")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, auth.PasswordHashCost, cost)
	})

	t.Run("trims surrounding whitespace before hashing", func(t *testing.T) {
		hash, err := auth.HashPassword("  s3cret-password \n")
		require.NoError(t, err)

		assert.NoError(t, auth.ComparePasswordAndHash("s3cret-password", hash))
		assert.NoError(t, auth.ComparePasswordAndHash("\ts3cret-password  ", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("rejects whitespace-only password", func(t *testing.T) {
		_, err := auth.HashPassword("   \t\n")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("same password yields distinct hashes", func(t *testing.T) {
		first, err := auth.HashPassword("s3cret-password")
		require.NoError(t, err)
		second, err := auth.HashPassword("s3cret-password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("mismatch returns the normalized error", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("wrong password", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash is not a mismatch", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("anything", "not-a-bcrypt-hash")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})
}
