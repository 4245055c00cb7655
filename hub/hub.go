// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ARRNAV26/Voting-System/models"
)

const (
	// Outbound frames queued per connection before the hub drops it.
	sendBufferSize = 32
	writeWait      = 10 * time.Second
)

// Hub tracks every open push connection, grouped by user id, and broadcasts
// delta frames to all of them. All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]map[string]*Conn
}

// Conn is one registered websocket connection. Writes are serialized through
// a buffered channel drained by a single writer goroutine, since the
// underlying connection supports only one concurrent writer.
type Conn struct {
	ID     string
	UserID int64

	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func New() *Hub {
	return &Hub{conns: make(map[int64]map[string]*Conn)}
}

// Register adds a connection for userID and starts its writer. The returned
// Conn is used to send frames and must be released with Unregister.
func (h *Hub) Register(userID int64, ws *websocket.Conn) *Conn {
	c := &Conn{
		ID:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[string]*Conn)
	}
	h.conns[userID][c.ID] = c
	h.mu.Unlock()

	go c.writePump()

	slog.Info("push connection registered", "conn_id", c.ID, "user_id", userID)
	return c
}

// Unregister removes the connection and stops its writer. Safe to call more
// than once.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	if set, ok := h.conns[c.UserID]; ok {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(h.conns, c.UserID)
		}
	}
	h.mu.Unlock()

	c.once.Do(func() { close(c.send) })
	slog.Info("push connection unregistered", "conn_id", c.ID, "user_id", c.UserID)
}

// ConnCount returns the number of open connections across all users.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.conns {
		n += len(set)
	}
	return n
}

// BroadcastVoteUpdate sends a vote_update frame to every connection.
func (h *Hub) BroadcastVoteUpdate(update models.VoteUpdate) {
	h.broadcast(models.NewFrame(models.FrameVoteUpdate, update))
}

// BroadcastSuggestionUpdate sends a suggestion_update frame with the full
// replacement record to every connection.
func (h *Hub) BroadcastSuggestionUpdate(s models.Suggestion) {
	h.broadcast(models.NewFrame(models.FrameSuggestionUpdate, models.SuggestionUpdate{Suggestion: s}))
}

// BroadcastNewSuggestion sends a new_suggestion frame to every connection.
func (h *Hub) BroadcastNewSuggestion(s models.Suggestion) {
	h.broadcast(models.NewFrame(models.FrameNewSuggestion, models.SuggestionUpdate{Suggestion: s}))
}

func (h *Hub) broadcast(frame models.Frame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to marshal broadcast frame", "error", err, "type", frame.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.conns {
		for _, c := range set {
			select {
			case c.send <- raw:
			default:
				// Slow consumer; dropping the frame is preferable to
				// blocking every other connection. The client will
				// recover the state from its next snapshot load.
				slog.Warn("dropping frame for slow connection", "conn_id", c.ID, "type", frame.Type)
			}
		}
	}
}

// Send queues one frame for this connection. Returns false if the buffer is
// full.
func (c *Conn) Send(frame models.Frame) bool {
	raw, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to marshal frame", "error", err, "type", frame.Type)
		return false
	}
	select {
	case c.send <- raw:
		return true
	default:
		return false
	}
}

func (c *Conn) writePump() {
	for raw := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
			slog.Warn("push write failed", "conn_id", c.ID, "error", err)
			c.ws.Close()
			// Drain remaining frames so senders never block; the read
			// side will notice the dead connection and unregister us.
			for range c.send {
			}
			return
		}
	}
	c.ws.Close()
}
