package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/dtroode/cride-server/internal/model"
)

// sender is the part of *gomail.Client used for delivery.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

var _ model.Mailer = (*SMTP)(nil)

// SMTP delivers emails through an SMTP relay from a fixed sender address.
type SMTP struct {
	client sender
	from   string
}

// SMTPConfig holds relay parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
}

// NewSMTP creates a mailer for the given relay.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return NewSMTPWithSender(client, cfg.From), nil
}

// NewSMTPWithSender allows injecting a fake sender in tests.
func NewSMTPWithSender(client sender, from string) *SMTP {
	return &SMTP{client: client, from: from}
}

func (s *SMTP) Send(ctx context.Context, email model.Email) error {
	msg, err := s.message(email)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}
	return nil
}

func (s *SMTP) message(email model.Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTMLBody)
	return msg, nil
}
