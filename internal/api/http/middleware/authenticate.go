package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

const (
	authScheme          = "Token"
	msgInvalidToken     = "Invalid token."
	msgNotAuthenticated = "Authentication credentials were not provided."
)

// Authenticator resolves session token keys to account IDs.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (uuid.UUID, error)
}

// Authenticate requires an "Authorization: Token <key>" header.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// Handle rejects the request with 401 unless the token is known.
func (m *Authenticate) Handle(c *gin.Context) {
	key, ok := parseAuthorization(c.GetHeader("Authorization"))
	if !ok {
		m.abort(c, msgNotAuthenticated)
		return
	}

	accountID, err := m.authenticator.Authenticate(c.Request.Context(), key)
	if err != nil {
		if !errors.Is(err, model.ErrUnauthenticated) {
			m.logger.Error("Authenticate middleware: token lookup failed",
				"error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}
		m.abort(c, msgInvalidToken)
		return
	}

	ctx := m.contextManager.SetAccountIDToContext(c.Request.Context(), accountID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (m *Authenticate) abort(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", authScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msg})
}

// parseAuthorization extracts the key from "Token <key>".
func parseAuthorization(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, authScheme) {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, " ") {
		return "", false
	}
	return key, true
}
