package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/cride-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (model.Profile, error) {
	const query = `
        SELECT account_id, picture, biography, rides_taken, rides_offered, reputation, created_at, updated_at
        FROM profiles WHERE account_id = $1
    `
	var p model.Profile
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&p.AccountID, &p.Picture, &p.Biography, &p.RidesTaken, &p.RidesOffered, &p.Reputation,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) SetPicture(ctx context.Context, accountID uuid.UUID, picture string) (string, error) {
	const query = `
        UPDATE profiles p SET picture = $2, updated_at = NOW()
        FROM (SELECT account_id, picture FROM profiles WHERE account_id = $1 FOR UPDATE) old
        WHERE p.account_id = old.account_id
        RETURNING old.picture
    `
	var previous string
	if err := r.db.QueryRow(ctx, query, accountID, picture).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to set profile picture: %w", err)
	}
	return previous, nil
}
