package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/cride-server/internal/logger"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers readiness probes.
type Health struct {
	db     Pinger
	logger *logger.Logger
}

func NewHealth(db Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger}
}

// Handle handles GET /health.
func (h *Health) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("Health handler: database unreachable",
			"error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
