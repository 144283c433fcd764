package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// accountIDKey stores the authenticated account ID in a request context.
var accountIDKey = contextKey{}

// Manager stores and retrieves the authenticated account ID on request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetAccountIDToContext returns a copy of ctx carrying accountID.
func (m *Manager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetAccountIDFromContext returns the account ID set by the authentication middleware.
func (m *Manager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
