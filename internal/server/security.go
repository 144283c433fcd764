package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/cride-server/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// TLSListener serves HTTPS using a certificate and key loaded from disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and accepts TLS 1.2 or newer.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return tls.Listen(protocol, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"http/1.1"},
	})
}

// PlainListener serves unencrypted HTTP, typically behind a TLS-terminating proxy.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}
