package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

// EmailRenderer builds the verification email for an account.
type EmailRenderer interface {
	VerificationEmail(account model.Account, token string) (model.Email, error)
}

// Notifier mints verification tokens and delivers verification emails.
type Notifier struct {
	tokenManager model.TokenManager
	renderer     EmailRenderer
	mailer       model.Mailer
	queue        model.NotificationQueue
	sendTimeout  time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

func NewNotifier(
	tokenManager model.TokenManager,
	renderer EmailRenderer,
	mailer model.Mailer,
	queue model.NotificationQueue,
	sendTimeout time.Duration,
	logger *logger.Logger,
) *Notifier {
	return &Notifier{
		tokenManager: tokenManager,
		renderer:     renderer,
		mailer:       mailer,
		queue:        queue,
		sendTimeout:  sendTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Send delivers a fresh verification email, bounded by the send timeout.
func (n *Notifier) Send(ctx context.Context, account model.Account) error {
	token, err := n.tokenManager.GenerateVerificationToken(account.ID)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	email, err := n.renderer.VerificationEmail(account, token)
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	if n.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.sendTimeout)
		defer cancel()
	}

	if err := n.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	n.logger.Info("Notifier: verification email sent",
		"account_id", account.ID,
		"email", account.Email)

	return nil
}

// Dispatch sends the verification email or, if delivery fails, queues it
// for the resend worker. It fails only when the email was neither sent nor queued.
func (n *Notifier) Dispatch(ctx context.Context, account model.Account) error {
	sendErr := n.Send(ctx, account)
	if sendErr == nil {
		return nil
	}

	n.logger.Warn("Notifier: verification email not delivered, queueing for retry",
		"account_id", account.ID,
		"error", sendErr.Error())

	// Queued even when the request context is already cancelled.
	pending := model.PendingNotification{
		AccountID:  account.ID,
		Attempts:   1,
		EnqueuedAt: n.now().UTC(),
	}
	if err := n.queue.Push(context.WithoutCancel(ctx), pending); err != nil {
		return errors.Join(sendErr, err)
	}

	return nil
}
