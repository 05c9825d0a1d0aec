package postgres

import (
	"context"
	"fmt"
	"time"
)

// OffsetRepo implements offset.Store backed by the file_offsets table.
type OffsetRepo struct {
	db *DB
}

// NewOffsetRepo creates a PostgreSQL offset store.
func NewOffsetRepo(db *DB) *OffsetRepo {
	return &OffsetRepo{db: db}
}

type offsetRow struct {
	Path      string `db:"path"`
	ByteOff   int64  `db:"byte_offset"`
	UpdatedAt int64  `db:"updated_at"`
}

// Get returns the stored offset for path, or 0 when unknown.
func (r *OffsetRepo) Get(ctx context.Context, path string) (int64, error) {
	var rows []offsetRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT path, byte_offset, updated_at FROM file_offsets WHERE path = $1`, path)
	if err != nil {
		return 0, fmt.Errorf("failed to get offset: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].ByteOff, nil
}

// Save upserts the offset for path.
func (r *OffsetRepo) Save(ctx context.Context, path string, off int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO file_offsets (path, byte_offset, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (path) DO UPDATE SET byte_offset = $2, updated_at = $3`,
		path, off, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save offset: %w", err)
	}
	return nil
}

// List returns every path with a stored offset.
func (r *OffsetRepo) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.SelectContext(ctx, &paths, `SELECT path FROM file_offsets`)
	if err != nil {
		return nil, fmt.Errorf("failed to list offsets: %w", err)
	}
	return paths, nil
}

// Delete removes the stored offset for path.
func (r *OffsetRepo) Delete(ctx context.Context, path string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM file_offsets WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("failed to delete offset: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (r *OffsetRepo) Close() error {
	return r.db.Close()
}
