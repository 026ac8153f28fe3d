package trace

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitClients(t *testing.T, m *Monitor, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for m.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("got %d clients, want %d", m.Clients(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMonitor(t *testing.T) {
	m := NewMonitor(16)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	waitClients(t, m, 1)

	line := []byte(`{"kind":"irq","cycle":1,"irq":34}` + "\n")
	m.Publish(line)
	line[0] = 'X' // published lines are copied

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, got, err := ws.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"kind":"irq","cycle":1,"irq":34}`+"\n" {
		t.Errorf("message = %q", got)
	}

	ws.Close()
	waitClients(t, m, 0)
}

func TestMonitorDrops(t *testing.T) {
	m := NewMonitor(2)
	m.Publish([]byte("no client"))
	if m.Dropped() != 0 {
		t.Errorf("lines dropped without clients")
	}

	c := m.subscribe()
	for range 5 {
		m.Publish([]byte("x"))
	}
	if got := m.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
	if len(c.lines) != 2 {
		t.Errorf("queued %d lines, want 2", len(c.lines))
	}
	m.unsubscribe(c)
	if m.Clients() != 0 {
		t.Errorf("client still subscribed")
	}
}

func TestMonitorServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMonitor(4)
	addr, err := m.Serve(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr.String()+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	waitClients(t, m, 1)

	m.Publish([]byte("hello"))
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, got, err := ws.ReadMessage(); err != nil || string(got) != "hello" {
		t.Errorf("ReadMessage = %q, %v", got, err)
	}
}
