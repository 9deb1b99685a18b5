// Package events streams photo listing changes to clients over Server-Sent Events.
package events

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// DefaultHeartbeat keeps idle connections alive through proxies.
const DefaultHeartbeat = 30 * time.Second

// Hub manages SSE clients for listing change broadcasts. It carries no
// viewer state: every client receives the same change events.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*client
	closed    bool
	last      map[gallery.Category]string
	heartbeat time.Duration
	recorder  metrics.Recorder
}

type client struct {
	id   string
	ch   chan gallery.Change
	done chan struct{}
}

// NewHub creates a hub. A zero heartbeat takes DefaultHeartbeat.
func NewHub(heartbeat time.Duration, recorder metrics.Recorder) *Hub {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Hub{
		clients:   map[string]*client{},
		last:      map[gallery.Category]string{},
		heartbeat: heartbeat,
		recorder:  metrics.OrNoop(recorder),
	}
}

// ServeHTTP implements the SSE endpoint at /api/events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "change stream shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := &client{id: uuid.NewString(), ch: make(chan gallery.Change, 8), done: make(chan struct{})}
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.recorder.SetStreamClients(n)
	slog.Debug("Change stream client connected", logfields.ClientID(c.id))
	defer h.removeClient(c.id)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("change stream write", logfields.Error(err))
		return
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(h.heartbeat)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err != nil {
				slog.Debug("change stream ping write", logfields.Error(err))
				return
			}
			if bw.Flush() == nil {
				flusher.Flush()
			}
		case change := <-c.ch:
			if err := writeEvent(bw, change); err != nil {
				slog.Debug("change stream write", logfields.Error(err))
				return
			}
			if bw.Flush() == nil {
				flusher.Flush()
			}
		}
	}
}

func writeEvent(bw *bufio.Writer, change gallery.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if _, err := bw.WriteString("event: change\ndata: "); err != nil {
		return err
	}
	if _, err := bw.Write(data); err != nil {
		return err
	}
	_, err = bw.WriteString("\n\n")
	return err
}

func (h *Hub) removeClient(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.SetStreamClients(n)
	}
}

// Notify broadcasts a change to all clients. Clients whose buffers are full
// are dropped; they reconnect and re-list.
func (h *Hub) Notify(change gallery.Change) {
	h.mu.Lock()
	if h.closed || change.Hash == "" || h.last[change.Category] == change.Hash {
		h.mu.Unlock()
		return
	}
	h.last[change.Category] = change.Hash
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- change:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("change broadcast",
		logfields.Category(string(change.Category)),
		logfields.Hash(change.Hash),
		slog.Int("clients", len(snapshot)),
		slog.Int("dropped", dropped))
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes all clients and prevents future broadcasts.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[string]*client{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetStreamClients(0)
}
