package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/cride-server/internal/model"
)

// Claims represents JWT claims with token type and account ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new verification token manager.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = defaultVerificationTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

var _ model.TokenManager = (*JWT)(nil)

const (
	defaultVerificationTTL = 72 * time.Hour
	typeEmailConfirmation  = "email_confirmation"
)

// GenerateVerificationToken creates a token proving control of the account email.
func (j *JWT) GenerateVerificationToken(accountID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    accountID,
		TokenType: typeEmailConfirmation,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	return tokenString, nil
}

// ParseVerificationToken validates the token and extracts the account ID.
// It returns model.ErrTokenExpired or model.ErrTokenInvalid.
func (j *JWT) ParseVerificationToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return uuid.Nil, model.ErrTokenInvalid
	}
	if claims.TokenType != typeEmailConfirmation {
		return uuid.Nil, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenInvalid, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrTokenInvalid
	}
	return claims.UserID, nil
}
