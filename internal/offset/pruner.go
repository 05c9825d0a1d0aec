package offset

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Pruner drops stored offsets for files that no longer exist, so a
// long-lived offset store does not accumulate entries for every log
// file ever rotated away.
type Pruner struct {
	store    Store
	interval time.Duration
}

// NewPruner creates a Pruner checking every interval.
func NewPruner(store Store, interval time.Duration) *Pruner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Pruner{store: store, interval: interval}
}

// Start runs the pruner loop until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	paths, err := p.store.List(ctx)
	if err != nil {
		slog.Error("failed to list stored offsets", "error", err)
		return
	}

	for _, path := range paths {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := p.store.Delete(ctx, path); err != nil {
			slog.Error("failed to prune offset", "path", path, "error", err)
			continue
		}
		slog.Debug("pruned offset for deleted file", "path", path)
	}
}
