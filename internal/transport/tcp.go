package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
)

// TCP ships newline-delimited JSON events over a socket. In connect
// mode it dials the configured peer; in bind mode it listens and fans
// events out to every connected client.
type TCP struct {
	mode domain.SocketMode

	// connect mode
	conn net.Conn

	// bind mode
	listener net.Listener
	mu       sync.Mutex
	clients  map[net.Conn]struct{}
	done     chan struct{}
}

// NewTCP builds the socket transport. Dial and listen failures are
// transport faults: the peer (or the port) may come back.
func NewTCP(cfg config.TCPConfig, mode domain.SocketMode) (*TCP, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("tcp transport requires an address")
	}

	t := &TCP{mode: mode}

	switch mode {
	case domain.ModeConnect:
		conn, err := net.Dial("tcp", cfg.Address)
		if err != nil {
			return nil, domain.NewTransportError("tcp dial", err)
		}
		t.conn = conn

	case domain.ModeBind:
		ln, err := net.Listen("tcp", cfg.Address)
		if err != nil {
			return nil, domain.NewTransportError("tcp listen", err)
		}
		t.listener = ln
		t.clients = make(map[net.Conn]struct{})
		t.done = make(chan struct{})
		go t.accept()

	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}

	return t, nil
}

func (t *TCP) accept() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
			default:
				slog.Warn("tcp accept failed", "error", err)
			}
			return
		}
		t.mu.Lock()
		t.clients[conn] = struct{}{}
		t.mu.Unlock()
	}
}

func (t *TCP) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	payload = append(payload, '\n')

	if t.mode == domain.ModeConnect {
		if _, err := t.conn.Write(payload); err != nil {
			return domain.NewTransportError("tcp write", err)
		}
		return nil
	}

	// Bind mode: deliver to every connected client, dropping broken
	// connections. No clients means the event goes nowhere, like an
	// unsubscribed pub/sub channel.
	t.mu.Lock()
	defer t.mu.Unlock()
	for conn := range t.clients {
		if _, err := conn.Write(payload); err != nil {
			conn.Close()
			delete(t.clients, conn)
		}
	}
	return nil
}

// Close is idempotent teardown of the socket(s).
func (t *TCP) Close() error {
	if t.mode == domain.ModeConnect {
		if t.conn != nil {
			err := t.conn.Close()
			t.conn = nil
			return err
		}
		return nil
	}

	select {
	case <-t.done:
		return nil
	default:
	}
	close(t.done)
	err := t.listener.Close()
	t.mu.Lock()
	for conn := range t.clients {
		conn.Close()
		delete(t.clients, conn)
	}
	t.mu.Unlock()
	return err
}
