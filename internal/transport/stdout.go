package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vietddude/logship/internal/core/domain"
)

// Stdout encodes events as JSON lines on a writer, normally os.Stdout.
// A write failure here is not a transport fault: stdout does not come
// back, so the supervisor fails fast instead of retrying.
type Stdout struct {
	enc *json.Encoder
}

// NewStdout creates the stdout transport writing to w.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Publish(_ context.Context, event *domain.Event) error {
	if err := s.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (s *Stdout) Close() error {
	return nil
}
