package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dtroode/cride-server/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

const verificationTemplate = "account_verification.html"

// Renderer builds emails from the embedded HTML templates.
type Renderer struct {
	templates *template.Template
	verifyURL string
	tokenTTL  time.Duration
}

// NewRenderer parses the embedded templates.
func NewRenderer(verifyURL string, tokenTTL time.Duration) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{templates: tmpl, verifyURL: verifyURL, tokenTTL: tokenTTL}, nil
}

type verificationData struct {
	Account   model.Account
	Token     string
	VerifyURL string
	ExpiresIn string
}

// VerificationEmail renders the account verification message for the account.
func (r *Renderer) VerificationEmail(account model.Account, token string) (model.Email, error) {
	var body bytes.Buffer
	err := r.templates.ExecuteTemplate(&body, verificationTemplate, verificationData{
		Account:   account,
		Token:     token,
		VerifyURL: r.verifyURL,
		ExpiresIn: humanizeDuration(r.tokenTTL),
	})
	if err != nil {
		return model.Email{}, fmt.Errorf("failed to render %s: %w", verificationTemplate, err)
	}

	return model.Email{
		To:       account.Email,
		Subject:  fmt.Sprintf("Welcome @%s! Verify your account to start using Comparte Ride", account.Username),
		HTMLBody: body.String(),
	}, nil
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case d >= time.Hour && d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		return d.String()
	}
}
