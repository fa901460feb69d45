package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/models"
)

const writeWait = 10 * time.Second

// client serializes writes: replies from concurrent commands and hub
// pushes may target the same connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks open IPC connections grouped by window label.
type Hub struct {
	mu      sync.RWMutex
	windows map[string]map[*client]bool
	metrics *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	log.Printf("[hub] init")
	return &Hub{
		windows: make(map[string]map[*client]bool),
		metrics: m,
	}
}

func (h *Hub) Register(window string, conn *websocket.Conn) *client {
	c := &client{conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.windows[window]; !ok {
		h.windows[window] = make(map[*client]bool)
		log.Printf("[hub] create window=%s", window)
	}

	h.windows[window][c] = true
	h.metrics.ConnOpened()
	log.Printf("[hub] register window=%s conns=%d", window, len(h.windows[window]))
	return c
}

func (h *Hub) Unregister(window string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.windows[window]
	if !ok {
		log.Printf("[hub] unregister skip: no window=%s", window)
		return
	}

	if _, ok := conns[c]; ok {
		delete(conns, c)
		c.conn.Close()
		h.metrics.ConnClosed()
		log.Printf("[hub] unregister window=%s conns=%d", window, len(conns))
	}

	if len(conns) == 0 {
		delete(h.windows, window)
		log.Printf("[hub] delete window=%s", window)
	}
}

func (h *Hub) snapshot(window string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*client
	for name, conns := range h.windows {
		if window != "" && name != window {
			continue
		}
		for c := range conns {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) SendToWindow(window string, msg []byte) {
	h.send(h.snapshot(window), window, msg)
}

func (h *Hub) Broadcast(msg []byte) {
	h.send(h.snapshot(""), "*", msg)
}

func (h *Hub) send(conns []*client, window string, msg []byte) {
	if len(conns) == 0 {
		log.Printf("[hub][SEND-SKIP] window=%s reason=no_active_connections", window)
		return
	}

	for _, c := range conns {
		if err := c.write(msg); err != nil {
			log.Printf("[hub][SEND-ERR] window=%s err=%v", window, err)
		}
	}
}

// PublishState pushes a state_changed event to every window.
func (h *Hub) PublishState(ev models.StateEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[hub][SEND-ERR] marshal state event: %v", err)
		return
	}
	h.Broadcast(b)
}

func (h *Hub) Count() int {
	return len(h.snapshot(""))
}
