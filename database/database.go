// Package database owns the schema of the accounts service and applies it with goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const migrationsDir = "migrations"

// openDB and gooseUpContext are seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return goose.OpenDBWithDriver("pgx", dsn)
	}
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Migrate applies all pending migrations to the database behind dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return Up(ctx, db)
}

// Up applies the embedded migrations using an already opened connection.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
