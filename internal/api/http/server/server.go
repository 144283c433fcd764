package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/cride-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer wraps an http.Server with address and lifecycle methods.
type HTTPServer struct {
	server *http.Server
}

// Timeouts bounds request processing.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// NewHTTPServer creates an HTTPServer serving handler on addr.
func NewHTTPServer(handler http.Handler, addr string, timeouts Timeouts) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       timeouts.Read,
			ReadHeaderTimeout: timeouts.Read,
			WriteTimeout:      timeouts.Write,
			IdleTimeout:       timeouts.Idle,
		},
	}
}

// Start serves on the configured address using the provided security layer.
// It returns nil once the server is stopped.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) Address() string {
	return s.server.Addr
}
