// Package db opens the application database and applies the embedded schema
// migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"sort"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Open connects to the sqlite database at dsn and wraps it with bun.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database").
			WithMetadata(map[string]any{"dsn": dsn})
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := bunDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to enable foreign keys")
	}

	return bunDB, nil
}

// Migrate applies the embedded migrations in filename order. Statements are
// written to be re-runnable, so Migrate is safe on every boot.
func Migrate(ctx context.Context, db *bun.DB) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		script, err := migrationFiles.ReadFile(name)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"migration": name})
		}

		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "migration failed").
				WithMetadata(map[string]any{"migration": name})
		}
	}

	return nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list migrations")
	}
	sort.Strings(entries)
	return entries, nil
}
