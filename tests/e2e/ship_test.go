package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/offset"
	"github.com/vietddude/logship/internal/ship"
	"github.com/vietddude/logship/internal/supervise"
)

// TestShipToTCPPeer runs the whole pipeline: supervisor -> shipper ->
// tailer -> tcp transport, against an in-process peer.
func TestShipToTCPPeer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	lines := make(chan string, 16)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- line
		}
	}()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatalf("create log file failed: %v", err)
	}

	runCfg := &config.RunConfig{
		Files:     []config.FileConfig{{Path: path, Type: "e2e"}},
		Transport: domain.TransportTCP,
		Mode:      domain.ModeConnect,
		Hostname:  "e2e-host",
		TCP:       config.TCPConfig{Address: ln.Addr().String()},
	}

	store := offset.NewMemoryStore()
	sup := supervise.New(runCfg, func(c *config.RunConfig) (supervise.Worker, error) {
		return ship.New(c, store)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	// Let the worker dial and start watching before producing lines.
	time.Sleep(300 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open for append failed: %v", err)
	}
	if _, err := f.WriteString("first line\nsecond line\n"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	f.Sync()
	f.Close()

	for _, want := range []string{"first line", "second line"} {
		select {
		case line := <-lines:
			var decoded map[string]any
			if err := json.Unmarshal([]byte(line), &decoded); err != nil {
				t.Fatalf("shipped line is not JSON: %v", err)
			}
			if decoded["message"] != want {
				t.Errorf("message = %v, want %q", decoded["message"], want)
			}
			if decoded["host"] != "e2e-host" {
				t.Errorf("host = %v, want e2e-host", decoded["host"])
			}
			if decoded["type"] != "e2e" {
				t.Errorf("type = %v, want e2e", decoded["type"])
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("event %q never arrived", want)
		}
	}

	// Offsets were persisted after delivery.
	deadline := time.After(2 * time.Second)
	want := int64(len("first line\nsecond line\n"))
	for {
		got, err := store.Get(context.Background(), path)
		if err != nil {
			t.Fatalf("offset Get failed: %v", err)
		}
		if got == want {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("stored offset = %d, want %d", got, want)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("supervisor returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop after cancellation")
	}
}
