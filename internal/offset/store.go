package offset

import "context"

// Store persists per-file read offsets so a respawned worker resumes
// where the previous one stopped instead of re-shipping or dropping
// lines.
type Store interface {
	// Get returns the stored offset for path, or 0 when unknown.
	Get(ctx context.Context, path string) (int64, error)

	// Save records the offset for path.
	Save(ctx context.Context, path string, off int64) error

	// List returns every path with a stored offset.
	List(ctx context.Context) ([]string, error)

	// Delete removes the stored offset for path.
	Delete(ctx context.Context, path string) error

	Close() error
}
