package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/cride-server/database"
)

var errNoPool = errors.New("postgres pool is not initialized")

// Connection is the pgx pool shared by the account, profile and session token repositories.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens the pool and applies pending schema migrations.
// The pool is closed again if migrating fails.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate accounts schema: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

func (c *Connection) Close() error {
	if c.Pool != nil {
		c.Pool.Close()
	}
	return nil
}

// Ping backs the readiness check of GET /health.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return errNoPool
	}
	return c.Pool.Ping(ctx)
}
