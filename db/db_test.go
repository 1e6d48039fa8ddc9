package db_test

import (
	"context"
	"testing"

	"github.com/mataure/storefront/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()

	bunDB, err := db.Open(":memory:")
	require.NoError(t, err)
	defer bunDB.Close()

	require.NoError(t, db.Migrate(ctx, bunDB))

	for _, table := range []string{"users", "products", "reviews"} {
		var name string
		err := bunDB.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}

	// migrations are re-runnable
	assert.NoError(t, db.Migrate(ctx, bunDB))

	// unique email constraint is live
	_, err = bunDB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ('a', 'a@example.com', 'x')")
	require.NoError(t, err)
	_, err = bunDB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ('b', 'a@example.com', 'x')")
	assert.Error(t, err)
}
