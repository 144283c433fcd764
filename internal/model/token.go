package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionTokenStore persists opaque session tokens, one per account.
type SessionTokenStore interface {
	// GetOrCreate returns the existing token of the account or stores one with the given key.
	GetOrCreate(ctx context.Context, accountID uuid.UUID, key string) (SessionToken, error)
	GetByKey(ctx context.Context, key string) (SessionToken, error)
}

// SessionToken is a bearer credential bound to exactly one account.
type SessionToken struct {
	Key       string
	AccountID uuid.UUID
	CreatedAt time.Time
}

// TokenManager generates and validates email verification tokens.
type TokenManager interface {
	GenerateVerificationToken(accountID uuid.UUID) (string, error)
	ParseVerificationToken(token string) (uuid.UUID, error)
}
