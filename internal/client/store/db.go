// Package store opens the CLI's local SQLite cache and keeps its schema
// current with goose.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/client/migrations"
	"github.com/dmitrijs2005/fieldcheck/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the cache at dsn and migrates it.
// The parent directory of a file DSN is created first.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if filex.IsFileDSN(dsn) {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single writer keeps SQLite from reporting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
