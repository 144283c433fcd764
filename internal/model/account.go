package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	// Create inserts the account together with its empty profile in one transaction.
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// Account represents a registered user.
type Account struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PhoneNumber  string
	PasswordHash []byte
	IsClient     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileStore defines persistence operations for profiles.
type ProfileStore interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (Profile, error)
	// SetPicture stores the new picture key and returns the previous one.
	SetPicture(ctx context.Context, accountID uuid.UUID, picture string) (string, error)
}

// DefaultReputation is the reputation of a freshly created profile.
const DefaultReputation = 5.0

// Profile is the one-to-one companion record of an Account.
type Profile struct {
	AccountID    uuid.UUID
	Picture      string
	Biography    string
	RidesTaken   int
	RidesOffered int
	Reputation   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
