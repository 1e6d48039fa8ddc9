package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mataure/storefront/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    password_hash TEXT NOT NULL,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    verification_token TEXT,
    reset_password_token TEXT,
    user_role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

func setupUsersRepo(t *testing.T) (auth.Users, func()) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return auth.NewUsersRepository(bunDB), cleanup
}

func seedUser(t *testing.T, repo auth.Users, email string) *auth.User {
	t.Helper()

	user, err := repo.Create(context.Background(), &auth.User{
		Username:     "tester",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	return user
}

func TestUsersRepositoryCreateAndGet(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repo, "alice@example.com")

	t.Run("create assigns defaults", func(t *testing.T) {
		assert.Equal(t, auth.RoleUser, user.Role)
		assert.False(t, user.IsVerified)
	})

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "alice@example.com", found.Email)
	})

	t.Run("get by email trims whitespace", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "  alice@example.com ")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("absence is nil nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate email maps to the conflict error", func(t *testing.T) {
		_, err := repo.Create(ctx, &auth.User{
			Username:     "impostor",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	})
}

func TestUsersRepositoryListUpdateDelete(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()
	first := seedUser(t, repo, "a@example.com")
	second := seedUser(t, repo, "b@example.com")

	t.Run("list returns records in id order", func(t *testing.T) {
		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, first.ID, records[0].ID)
		assert.Equal(t, second.ID, records[1].ID)
	})

	t.Run("partial update touches only named columns", func(t *testing.T) {
		n, err := repo.Update(ctx, first.ID, map[string]any{"username": "renamed"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		found, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", found.Username)
		assert.Equal(t, "a@example.com", found.Email)
	})

	t.Run("update with no fields is a no-op", func(t *testing.T) {
		n, err := repo.Update(ctx, first.ID, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second))

		found, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestUsersRepositoryVerificationToken(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repo, "alice@example.com")

	t.Run("store only while none outstanding", func(t *testing.T) {
		n, err := repo.StoreVerificationToken(ctx, user.ID, "token-one")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		// second store loses, the outstanding token is never rotated
		n, err = repo.StoreVerificationToken(ctx, user.ID, "token-two")
		require.NoError(t, err)
		assert.Zero(t, n)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "token-one", found.VerificationToken)
	})

	t.Run("consume requires a matching token", func(t *testing.T) {
		n, err := repo.ConsumeVerificationToken(ctx, user.ID, "wrong-token")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.ConsumeVerificationToken(ctx, user.ID, "token-one")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsVerified)
		assert.Empty(t, found.VerificationToken)
	})

	t.Run("consume is single use", func(t *testing.T) {
		n, err := repo.ConsumeVerificationToken(ctx, user.ID, "token-one")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("store refuses verified accounts", func(t *testing.T) {
		n, err := repo.StoreVerificationToken(ctx, user.ID, "token-three")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestUsersRepositoryResetToken(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repo, "alice@example.com")

	t.Run("store only while none outstanding", func(t *testing.T) {
		n, err := repo.StoreResetToken(ctx, user.ID, "reset-one")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.StoreResetToken(ctx, user.ID, "reset-two")
		require.NoError(t, err)
		assert.Zero(t, n)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "reset-one", found.ResetPasswordToken)
	})

	t.Run("consume swaps the hash and clears the token in one step", func(t *testing.T) {
		n, err := repo.ConsumeResetToken(ctx, user.ID, "wrong-token", "new-hash")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.ConsumeResetToken(ctx, user.ID, "reset-one", "new-hash")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", found.PasswordHash)
		assert.Empty(t, found.ResetPasswordToken)
	})

	t.Run("consume is single use", func(t *testing.T) {
		n, err := repo.ConsumeResetToken(ctx, user.ID, "reset-one", "another-hash")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
