package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/cride-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const accountColumns = `id, email, username, first_name, last_name, phone_number, password_hash,
			  is_client, is_verified, created_at, updated_at`

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.PhoneNumber, &a.PasswordHash,
		&a.IsClient, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create stores the account and its empty profile atomically.
func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	insertAccount := `INSERT INTO users (id, email, username, first_name, last_name, phone_number, password_hash,
			  is_client, is_verified, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + accountColumns
	const insertProfile = `INSERT INTO profiles (account_id, reputation, created_at, updated_at)
			  VALUES ($1, $2, $3, $3)`

	var saved model.Account
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		saved, err = scanAccount(tx.QueryRow(ctx, insertAccount,
			account.ID, account.Email, account.Username, account.FirstName, account.LastName,
			account.PhoneNumber, account.PasswordHash, account.IsClient, account.IsVerified,
			account.CreatedAt, account.UpdatedAt,
		))
		if err != nil {
			return mapUniqueViolation(err)
		}

		if _, err := tx.Exec(ctx, insertProfile, saved.ID, model.DefaultReputation, saved.CreatedAt); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	return r.getBy(ctx, "username", username)
}

// getBy looks an account up by one of its unique columns; column is never user input.
func (r *AccountRepository) getBy(ctx context.Context, column string, value any) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE ` + column + ` = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by %s: %w", column, err)
	}

	return account, nil
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
