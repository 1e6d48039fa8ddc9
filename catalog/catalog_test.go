package catalog_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mataure/storefront/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	sqliteCreateProducts = `CREATE TABLE products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    price REAL NOT NULL,
    user_id INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	sqliteCreateReviews = `CREATE TABLE reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    rate INTEGER NOT NULL,
    comment TEXT,
    product_id INTEGER NOT NULL,
    user_id INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
)

func setupCatalog(t *testing.T) (*bun.DB, func()) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateProducts)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateReviews)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return bunDB, cleanup
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func seedProducts(t *testing.T, repo catalog.Products) []*catalog.Product {
	t.Helper()
	ctx := context.Background()

	seeds := []*catalog.Product{
		{Name: "Laptop", Description: "portable computer", Price: 1200, UserID: 1},
		{Name: "Laptop Stand", Description: "aluminium stand", Price: 45, UserID: 1},
		{Name: "Mouse", Description: "wireless mouse", Price: 25, UserID: 2},
	}
	for _, p := range seeds {
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}
	return seeds
}

func TestProductsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create lowercases the name", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)

		created, err := repo.Create(ctx, &catalog.Product{Name: "LapTop", Price: 1200})
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		assert.Equal(t, "laptop", created.Name)
	})

	t.Run("list without filters returns everything", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seedProducts(t, repo)

		records, err := repo.List(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("name filter matches substrings", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seedProducts(t, repo)

		records, err := repo.List(ctx, catalog.ProductFilter{Name: "laptop"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "laptop", records[0].Name)
		assert.Equal(t, "laptop stand", records[1].Name)
	})

	t.Run("price bounds apply only when both are set", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seedProducts(t, repo)

		records, err := repo.List(ctx, catalog.ProductFilter{
			MinPrice: floatPtr(20),
			MaxPrice: floatPtr(100),
		})
		require.NoError(t, err)
		assert.Len(t, records, 2)

		// an open-ended bound is ignored
		records, err = repo.List(ctx, catalog.ProductFilter{MinPrice: floatPtr(1000)})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("get by id", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seeds := seedProducts(t, repo)

		found, err := repo.GetByID(ctx, seeds[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "laptop", found.Name)

		_, err = repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("partial update", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seeds := seedProducts(t, repo)

		updated, err := repo.Update(ctx, seeds[0].ID, catalog.ProductUpdate{
			Price: floatPtr(999),
		})
		require.NoError(t, err)
		assert.Equal(t, float64(999), updated.Price)
		assert.Equal(t, "laptop", updated.Name)

		updated, err = repo.Update(ctx, seeds[0].ID, catalog.ProductUpdate{
			Name:        strPtr("ULTRABOOK"),
			Description: strPtr("thin and light"),
		})
		require.NoError(t, err)
		assert.Equal(t, "ultrabook", updated.Name)
		assert.Equal(t, "thin and light", updated.Description)
		assert.Equal(t, float64(999), updated.Price)

		_, err = repo.Update(ctx, 9999, catalog.ProductUpdate{Price: floatPtr(1)})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewProductsRepository(db)
		seeds := seedProducts(t, repo)

		require.NoError(t, repo.Delete(ctx, seeds[2].ID))

		_, err := repo.GetByID(ctx, seeds[2].ID)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, seeds[2].ID), catalog.ErrProductNotFound)
	})
}

func seedReviews(t *testing.T, repo catalog.Reviews, productID int64, n int) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		_, err := repo.Create(ctx, &catalog.Review{
			Rate:      (i % 5) + 1,
			Comment:   "review",
			ProductID: productID,
			UserID:    1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestReviewsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list pages newest first by default", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewReviewsRepository(db)
		seedReviews(t, repo, 1, 15)

		first, err := repo.List(ctx, catalog.ReviewPage{ProductID: 1})
		require.NoError(t, err)
		require.Len(t, first, 10)
		assert.True(t, first[0].CreatedAt.After(first[9].CreatedAt))

		second, err := repo.List(ctx, catalog.ReviewPage{ProductID: 1, Page: 2})
		require.NoError(t, err)
		assert.Len(t, second, 5)
	})

	t.Run("ascending sort and custom limit", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewReviewsRepository(db)
		seedReviews(t, repo, 1, 5)

		records, err := repo.List(ctx, catalog.ReviewPage{ProductID: 1, Sort: "asc", Limit: 3})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.True(t, records[0].CreatedAt.Before(records[2].CreatedAt))
	})

	t.Run("list filters by product", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewReviewsRepository(db)
		seedReviews(t, repo, 1, 3)
		seedReviews(t, repo, 2, 2)

		records, err := repo.List(ctx, catalog.ReviewPage{ProductID: 2})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("get and delete", func(t *testing.T) {
		db, cleanup := setupCatalog(t)
		defer cleanup()
		repo := catalog.NewReviewsRepository(db)

		created, err := repo.Create(ctx, &catalog.Review{Rate: 5, Comment: "great", ProductID: 1, UserID: 1})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.Rate)

		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, catalog.ErrReviewNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), catalog.ErrReviewNotFound)
	})
}
