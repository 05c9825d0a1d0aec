package domain

import (
	"errors"
	"fmt"
)

// TransportError marks a downstream transport as unusable (connection
// refused, broker unavailable, broken pipe). It is the only error
// category the supervisor retries; anything else is fatal.
type TransportError struct {
	Op  string // operation that failed, e.g. "redis rpush", "tcp dial"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a recoverable transport fault.
func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// IsTransportFault reports whether err is (or wraps) a TransportError.
func IsTransportFault(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
