package model

import (
	"context"
	"net"
)

// SecurityLayer decides whether the API is served over TLS or plain TCP.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running listener owned by main.
type Server interface {
	// Start blocks until the server stops; a graceful Stop yields nil.
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
