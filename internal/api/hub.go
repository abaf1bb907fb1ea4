package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Event types carried on a job's event stream.
const (
	EventState    = "state"
	EventProgress = "progress"
)

// Event is one message on a job's event stream. State events mark
// lifecycle transitions; progress events report reordered layers.
type Event struct {
	JobID string `json:"job_id"`
	Type  string `json:"type"`
	State string `json:"state,omitempty"`
	Done  int    `json:"done,omitempty"`
	Total int    `json:"total,omitempty"`
	Error string `json:"error,omitempty"`
}

const writeTimeout = 3 * time.Second

// Hub fans job events out to WebSocket subscribers. Subscriptions are
// keyed by job ID so clients only see the job they asked for.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*websocket.Conn]struct{})}
}

// Add subscribes conn to events for the given job.
func (h *Hub) Add(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subs[jobID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.subs[jobID] = conns
	}
	conns[conn] = struct{}{}
}

// Remove drops conn's subscription. The caller owns closing the
// connection.
func (h *Hub) Remove(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subs[jobID]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.subs, jobID)
	}
}

// Publish sends event to every subscriber of its job. Connections that
// fail to accept the write within the timeout are closed and dropped.
func (h *Hub) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subs[event.JobID]
	for conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.subs, event.JobID)
	}
}
