package trace

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"

	"sict/emu/log"
)

// Monitor streams trace lines to websocket clients. Each client has a
// buffered queue; lines are dropped for a client whose queue is full, so
// publishing never blocks the simulation.
type Monitor struct {
	buf int

	mu      sync.Mutex
	clients map[*client]struct{}

	dropped atomic.Uint64
}

type client struct {
	lines chan []byte
}

func NewMonitor(buf int) *Monitor {
	if buf <= 0 {
		buf = 1
	}
	return &Monitor{buf: buf, clients: make(map[*client]struct{})}
}

func (m *Monitor) subscribe() *client {
	c := &client{lines: make(chan []byte, m.buf)}
	m.mu.Lock()
	m.clients[c] = struct{}{}
	m.mu.Unlock()
	log.ModTrace.DebugZ("monitor client connected").Int("clients", m.Clients()).End()
	return c
}

func (m *Monitor) unsubscribe(c *client) {
	m.mu.Lock()
	delete(m.clients, c)
	m.mu.Unlock()
}

// Clients returns the number of connected clients.
func (m *Monitor) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Dropped returns the number of lines dropped so far, summed over clients.
func (m *Monitor) Dropped() uint64 { return m.dropped.Load() }

func (m *Monitor) Publish(line []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.clients) == 0 {
		return
	}
	cpy := make([]byte, len(line))
	copy(cpy, line)
	for c := range m.clients {
		select {
		case c.lines <- cpy:
		default:
			m.dropped.Add(1)
		}
	}
}

// Handler returns the websocket handler streaming trace lines, one text
// message per line.
func (m *Monitor) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upgrader = websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.ModTrace.ErrorZ("failed to perform websocket handshake").Error("err", err).End()
			return
		}
		defer ws.Close()

		c := m.subscribe()
		defer m.unsubscribe(c)

		// Clients never send anything; reading detects them leaving.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := ws.NextReader(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				log.ModTrace.DebugZ("monitor client left").End()
				return
			case <-r.Context().Done():
				return
			case line := <-c.lines:
				if err := ws.WriteMessage(websocket.TextMessage, line); err != nil {
					log.ModTrace.WarnZ("monitor write failed").Error("err", err).End()
					return
				}
			}
		}
	}
}

// Serve listens on hostport and serves the monitor on /ws until ctx is
// done. It returns once the listener is ready, with the address it
// listens on.
func (m *Monitor) Serve(ctx context.Context, hostport string) (net.Addr, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.Handler())

	server := http.Server{
		Addr:    hostport,
		Handler: mux,
	}

	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		return nil, errors.Wrap(err, "monitor listen")
	}

	go func() {
		log.ModTrace.InfoZ("monitor listening").Stringer("addr", ln.Addr()).End()
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ModTrace.ErrorZ("monitor server").Error("err", err).End()
		}
	}()
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	return ln.Addr(), nil
}
