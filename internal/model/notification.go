package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// PendingNotification is a verification email waiting for redelivery.
type PendingNotification struct {
	AccountID  uuid.UUID `json:"account_id"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NotificationQueue holds verification emails that could not be delivered.
type NotificationQueue interface {
	Push(ctx context.Context, n PendingNotification) error
	// Pop blocks up to wait; it returns ErrNotFound when nothing arrived.
	Pop(ctx context.Context, wait time.Duration) (PendingNotification, error)
	DeadLetter(ctx context.Context, n PendingNotification) error
}
