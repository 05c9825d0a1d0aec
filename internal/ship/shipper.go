package ship

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/metrics"
	"github.com/vietddude/logship/internal/offset"
	"github.com/vietddude/logship/internal/tail"
	"github.com/vietddude/logship/internal/transport"
)

// Shipper is one worker run: it pumps tailed lines into the selected
// transport, persisting per-file offsets after each delivery.
type Shipper struct {
	cfg       *config.RunConfig
	store     offset.Store
	transport transport.Transport
	tailer    *tail.Tailer
	log       *slog.Logger

	stopOnce sync.Once
	stopErr  error
}

// New dials the transport and opens the tailer. A transport dial
// failure surfaces as a transport fault for the supervisor to retry.
func New(cfg *config.RunConfig, store offset.Store) (*Shipper, error) {
	tr, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}

	tailer, err := tail.New(cfg.Files, cfg.Hostname, store)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	return &Shipper{
		cfg:       cfg,
		store:     store,
		transport: tr,
		tailer:    tailer,
		log:       slog.Default(),
	}, nil
}

// Run blocks shipping events until cancellation or a transport fault.
// On a fault the shipper tears itself down before returning, so no
// live handle outlasts the error.
func (s *Shipper) Run(ctx context.Context) error {
	label := string(s.cfg.Transport)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-s.tailer.Events():
			if !ok {
				return nil
			}

			if err := s.transport.Publish(ctx, ev); err != nil {
				if domain.IsTransportFault(err) {
					metrics.TransportErrors.WithLabelValues(label).Inc()
					_ = s.Stop()
				}
				return err
			}
			metrics.EventsShipped.WithLabelValues(label).Inc()

			if err := s.store.Save(ctx, ev.File, ev.Offset); err != nil {
				s.log.Warn("failed to persist offset",
					"file", ev.File, "error", err)
			}
		}
	}
}

// Stop releases the tailer and the transport connection. Idempotent.
func (s *Shipper) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = errors.Join(s.tailer.Close(), s.transport.Close())
	})
	return s.stopErr
}
