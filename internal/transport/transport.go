package transport

import (
	"context"
	"fmt"
	"os"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
)

// Transport delivers events downstream. Implementations must wrap
// downstream-unavailability errors (and only those) as
// domain.TransportError so the supervisor knows they are retryable.
type Transport interface {
	Publish(ctx context.Context, event *domain.Event) error
	Close() error
}

// New builds the transport selected by the run configuration.
func New(cfg *config.RunConfig) (Transport, error) {
	switch cfg.Transport {
	case domain.TransportRedis:
		return NewRedis(cfg.Redis)
	case domain.TransportTCP:
		return NewTCP(cfg.TCP, cfg.Mode)
	case domain.TransportStdout:
		return NewStdout(os.Stdout), nil
	}
	return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
}
