package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/cride-server/internal/model"
)

var _ model.SessionTokenStore = (*SessionTokenRepository)(nil)

type SessionTokenRepository struct {
	db *Connection
}

func NewSessionTokenRepository(db *Connection) *SessionTokenRepository {
	return &SessionTokenRepository{db: db}
}

// GetOrCreate inserts the key unless the account already owns a token, and returns the stored token.
func (r *SessionTokenRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID, key string) (model.SessionToken, error) {
	const query = `
		WITH ins AS (
			INSERT INTO auth_tokens (key, account_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (account_id) DO NOTHING
			RETURNING key, account_id, created_at
		)
		SELECT key, account_id, created_at FROM ins
		UNION ALL
		SELECT t.key, t.account_id, t.created_at FROM auth_tokens t
		WHERE NOT EXISTS (SELECT 1 FROM ins) AND t.account_id = $2
		LIMIT 1`

	var t model.SessionToken
	err := r.db.QueryRow(ctx, query, key, accountID).Scan(&t.Key, &t.AccountID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent insert committed after this statement's snapshot.
		return r.getByAccountID(ctx, accountID)
	}
	if err != nil {
		return model.SessionToken{}, fmt.Errorf("failed to get or create session token: %w", mapUniqueViolation(err))
	}
	return t, nil
}

func (r *SessionTokenRepository) GetByKey(ctx context.Context, key string) (model.SessionToken, error) {
	const query = `SELECT key, account_id, created_at FROM auth_tokens WHERE key = $1`

	var t model.SessionToken
	if err := r.db.QueryRow(ctx, query, key).Scan(&t.Key, &t.AccountID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionToken{}, model.ErrNotFound
		}
		return model.SessionToken{}, fmt.Errorf("failed to get session token: %w", err)
	}
	return t, nil
}

func (r *SessionTokenRepository) getByAccountID(ctx context.Context, accountID uuid.UUID) (model.SessionToken, error) {
	const query = `SELECT key, account_id, created_at FROM auth_tokens WHERE account_id = $1`

	var t model.SessionToken
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&t.Key, &t.AccountID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionToken{}, model.ErrNotFound
		}
		return model.SessionToken{}, fmt.Errorf("failed to get session token by account: %w", err)
	}
	return t, nil
}
