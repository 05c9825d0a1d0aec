package supervise

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/metrics"
)

// Worker is one run of the shipping engine. Run blocks until the
// worker terminates; Stop is idempotent teardown and must not fail on
// an already-stopped worker.
type Worker interface {
	Run(ctx context.Context) error
	Stop() error
}

// Factory builds a fresh Worker bound to the run configuration. A
// transport-fault error from the factory is retried like one from Run.
type Factory func(cfg *config.RunConfig) (Worker, error)

// Supervisor owns the respawn policy: it starts workers, classifies
// their termination and either restarts with exponential backoff or
// stops. Only transport faults are retried; cancellation exits clean;
// everything else is fatal on first occurrence.
type Supervisor struct {
	cfg     *config.RunConfig
	factory Factory
	log     *slog.Logger

	// failures counts classified transport faults for the whole
	// process lifetime. It is clamped to maxFailures and never reset.
	failures int

	// delayUnit scales the backoff for tests; one second in production.
	delayUnit time.Duration
}

// New creates a Supervisor for cfg.
func New(cfg *config.RunConfig, factory Factory) *Supervisor {
	return &Supervisor{
		cfg:       cfg,
		factory:   factory,
		log:       slog.Default(),
		delayUnit: time.Second,
	}
}

// Run drives the restart loop until cancellation or a fatal error.
// It returns nil on both user-cancellation paths (the process should
// exit 0) and the unclassified error otherwise.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		w, err := s.factory(s.cfg)
		if err == nil {
			err = w.Run(ctx)

			if ctx.Err() != nil {
				s.log.Info("shutting down")
				if stopErr := w.Stop(); stopErr != nil {
					s.log.Warn("worker teardown failed", "error", stopErr)
				}
				s.log.Info("shutdown complete")
				return nil
			}

			if err == nil {
				// Clean worker exit: respawn immediately. No delay,
				// the failure counter is untouched. Stop is idempotent,
				// so releasing a worker that drained itself is safe and
				// keeps a resource-holding one from leaking.
				if stopErr := w.Stop(); stopErr != nil {
					s.log.Warn("worker teardown failed", "error", stopErr)
				}
				s.log.Debug("worker exited clean, respawning")
				continue
			}
		}

		if !domain.IsTransportFault(err) {
			// Fail fast: retries are reserved for transport faults.
			return err
		}

		if s.failures < maxFailures {
			s.failures++
		}
		metrics.WorkerRespawns.Inc()

		delay := delayIn(s.failures, s.delayUnit)
		s.log.Info("transport unavailable, respawning worker",
			"delay", delay, "failures", s.failures, "error", err)

		select {
		case <-ctx.Done():
			// No handle exists while waiting; nothing to tear down.
			s.log.Info("user cancelled respawn")
			return nil
		case <-time.After(delay):
		}
	}
}
