package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/cride-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogging(logger.NewWithWriter(&buf, int(slog.LevelDebug)))

			engine := gin.New()
			engine.Use(l.Handle)
			engine.GET("/users/me", func(c *gin.Context) { c.Status(tt.status) })

			engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/me", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "method=GET")
			assert.Contains(t, out, "path=/users/me")
			assert.Contains(t, out, "duration_ms=")
		})
	}
}
