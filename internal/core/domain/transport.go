package domain

import "fmt"

type TransportKind string
type SocketMode string

const (
	// Transport kinds
	TransportRedis  TransportKind = "redis"
	TransportTCP    TransportKind = "tcp"
	TransportStdout TransportKind = "stdout"

	// Socket modes
	ModeBind    SocketMode = "bind"
	ModeConnect SocketMode = "connect"
)

// ValidateTransport checks k against the supported transport kinds.
func ValidateTransport(k TransportKind) error {
	switch k {
	case TransportRedis, TransportTCP, TransportStdout:
		return nil
	}
	return fmt.Errorf("unsupported transport %q (want redis, tcp or stdout)", k)
}

// ValidateMode checks m against the supported socket modes.
func ValidateMode(m SocketMode) error {
	switch m {
	case ModeBind, ModeConnect:
		return nil
	}
	return fmt.Errorf("unsupported mode %q (want bind or connect)", m)
}
