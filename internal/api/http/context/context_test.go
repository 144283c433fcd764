package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/cride-server/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager()
	id := uuid.New()

	ctx := m.SetAccountIDToContext(context.Background(), id)
	got, ok := m.GetAccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManager_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetAccountIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = m.GetAccountIDFromContext(m.SetAccountIDToContext(context.Background(), uuid.Nil))
	assert.False(t, ok)

	//nolint:staticcheck // a plain string key must not collide with the manager's key
	ctx := context.WithValue(context.Background(), "account_id", uuid.New())
	_, ok = m.GetAccountIDFromContext(ctx)
	assert.False(t, ok)
}
