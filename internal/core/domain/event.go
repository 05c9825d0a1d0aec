package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a single shipped log line
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"@timestamp"`
	Host      string         `json:"host"`
	File      string         `json:"file"`
	Message   string         `json:"message"`
	Type      string         `json:"type,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`

	// Offset is the byte position in File after this line was read.
	// Used by the offset store, not serialized on the wire.
	Offset int64 `json:"-"`
}

// NewEvent builds an Event for a line read from a file.
func NewEvent(host, file, message string, offset int64) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Host:      host,
		File:      file,
		Message:   message,
		Offset:    offset,
	}
}
