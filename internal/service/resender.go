package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

var (
	errAccountGone     = errors.New("account no longer exists")
	errAlreadyVerified = errors.New("account already verified")
)

const defaultPollTimeout = 5 * time.Second

// VerificationSender delivers a verification email right away.
type VerificationSender interface {
	Send(ctx context.Context, account model.Account) error
}

// Resender drains the notification queue and redelivers verification emails.
type Resender struct {
	accountStore model.AccountStore
	queue        model.NotificationQueue
	sender       VerificationSender
	maxRetries   uint64
	pollTimeout  time.Duration
	newBackOff   func() backoff.BackOff
	logger       *logger.Logger
}

func NewResender(
	accountStore model.AccountStore,
	queue model.NotificationQueue,
	sender VerificationSender,
	maxRetries uint64,
	logger *logger.Logger,
) *Resender {
	return &Resender{
		accountStore: accountStore,
		queue:        queue,
		sender:       sender,
		maxRetries:   maxRetries,
		pollTimeout:  defaultPollTimeout,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: logger,
	}
}

// Run processes queued notifications until ctx is done.
func (r *Resender) Run(ctx context.Context) error {
	r.logger.Info("Resender: started")
	defer r.logger.Info("Resender: stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := r.queue.Pop(ctx, r.pollTimeout)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error("Resender: failed to pop notification",
				"error", err.Error())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.pollTimeout):
			}
			continue
		}

		r.process(ctx, n)
	}
}

func (r *Resender) process(ctx context.Context, n model.PendingNotification) {
	operation := func() error {
		n.Attempts++

		account, err := r.accountStore.GetByID(ctx, n.AccountID)
		if errors.Is(err, model.ErrNotFound) {
			return backoff.Permanent(errAccountGone)
		}
		if err != nil {
			return err
		}
		if account.IsVerified {
			return backoff.Permanent(errAlreadyVerified)
		}

		return r.sender.Send(ctx, account)
	}

	notify := func(err error, next time.Duration) {
		r.logger.Warn("Resender: delivery attempt failed",
			"account_id", n.AccountID,
			"attempts", n.Attempts,
			"retry_in", next.String(),
			"error", err.Error())
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	err := backoff.RetryNotify(operation, b, notify)

	switch {
	case err == nil:
		r.logger.Info("Resender: verification email redelivered",
			"account_id", n.AccountID,
			"attempts", n.Attempts)
	case errors.Is(err, errAccountGone), errors.Is(err, errAlreadyVerified):
		r.logger.Debug("Resender: notification skipped",
			"account_id", n.AccountID,
			"reason", err.Error())
	case ctx.Err() != nil:
		if err := r.queue.Push(context.WithoutCancel(ctx), n); err != nil {
			r.logger.Error("Resender: failed to requeue notification on shutdown",
				"account_id", n.AccountID,
				"error", err.Error())
		}
	default:
		r.logger.Error("Resender: giving up on verification email",
			"account_id", n.AccountID,
			"attempts", n.Attempts,
			"error", err.Error())
		if err := r.queue.DeadLetter(ctx, n); err != nil {
			r.logger.Error("Resender: failed to dead-letter notification",
				"account_id", n.AccountID,
				"error", err.Error())
		}
	}
}
