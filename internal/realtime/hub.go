// Package realtime pushes booking lifecycle events to connected
// clients and walkers over WebSocket.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"petwalk/internal/domain"
)

// session wraps one WebSocket connection with a write lock.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(event domain.BookingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(event)
}

// Hub tracks connected user sessions and fans booking events out to the
// parties involved. Delivery is best-effort: a dead connection is
// dropped, and duplicate events are tolerated by consumers.
type Hub struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session // keyed by user (client or walker) ID
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Register attaches a connection for the given user, replacing any
// previous session.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.sessions[userID]; ok {
		_ = old.conn.Close()
	}
	h.sessions[userID] = &session{conn: conn}
}

// Unregister detaches and closes the user's connection, but only if it
// is still the registered one. A read loop winding down after its
// connection was replaced must not tear down the replacement.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[userID]; ok && s.conn == conn {
		_ = s.conn.Close()
		delete(h.sessions, userID)
	}
}

// Publish delivers a booking event to the client and, when assigned,
// the walker.
func (h *Hub) Publish(ctx context.Context, event domain.BookingEvent) {
	h.deliver(ctx, event.ClientID, event)
	if event.WalkerID != "" {
		h.deliver(ctx, event.WalkerID, event)
	}
}

func (h *Hub) deliver(ctx context.Context, userID string, event domain.BookingEvent) {
	h.mu.RLock()
	s, ok := h.sessions[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := s.send(event); err != nil {
		h.logger.WarnContext(ctx, "websocket send failed, dropping session",
			"user_id", userID, "error", err)
		h.Unregister(userID, s.conn)
	}
}
