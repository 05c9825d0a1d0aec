package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
)

func TestTCP_ConnectMode(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	tr, err := NewTCP(config.TCPConfig{Address: ln.Addr().String()}, domain.ModeConnect)
	if err != nil {
		t.Fatalf("NewTCP failed: %v", err)
	}
	defer tr.Close()

	ev := domain.NewEvent("host-1", "/tmp/app.log", "line one", 9)
	if err := tr.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case line := <-received:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("received line is not JSON: %v", err)
		}
		if decoded["message"] != "line one" {
			t.Errorf("message = %v, want line one", decoded["message"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived at the peer")
	}
}

func TestTCP_ConnectMode_DialFailureIsTransportFault(t *testing.T) {
	// Grab a free port and close it again so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewTCP(config.TCPConfig{Address: addr}, domain.ModeConnect)
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !domain.IsTransportFault(err) {
		t.Errorf("dial failure not classified as transport fault: %v", err)
	}
}

func TestTCP_BindMode_FansOutToClients(t *testing.T) {
	tr, err := NewTCP(config.TCPConfig{Address: "127.0.0.1:0"}, domain.ModeBind)
	if err != nil {
		t.Fatalf("NewTCP failed: %v", err)
	}
	defer tr.Close()

	// No clients yet: events go nowhere but publishing must not fail.
	ev := domain.NewEvent("host-1", "/tmp/app.log", "dropped", 8)
	if err := tr.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish with no clients failed: %v", err)
	}

	conn, err := net.Dial("tcp", tr.listener.Addr().String())
	if err != nil {
		t.Fatalf("client dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the accept loop to register the client.
	deadline := time.After(2 * time.Second)
	for {
		tr.mu.Lock()
		n := len(tr.clients)
		tr.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	ev = domain.NewEvent("host-1", "/tmp/app.log", "delivered", 10)
	if err := tr.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("received line is not JSON: %v", err)
	}
	if decoded["message"] != "delivered" {
		t.Errorf("message = %v, want delivered", decoded["message"])
	}
}

func TestTCP_CloseIdempotent(t *testing.T) {
	tr, err := NewTCP(config.TCPConfig{Address: "127.0.0.1:0"}, domain.ModeBind)
	if err != nil {
		t.Fatalf("NewTCP failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
