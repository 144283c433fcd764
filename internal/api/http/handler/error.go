package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/cride-server/internal/model"
)

const (
	msgInvalidToken = "Invalid token."
	msgInternal     = "internal server error"
)

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, model.ErrUnauthenticated):
		c.Header("WWW-Authenticate", "Token")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
	}
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{model.NonFieldErrors: []string{msg}})
}
