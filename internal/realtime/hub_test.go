package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"petwalk/internal/domain"
)

func newHubServer(t *testing.T, hub *Hub, userID string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
		go func() {
			defer hub.Unregister(userID, conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitForSession(t *testing.T, hub *Hub, userID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		_, ok := hub.sessions[userID]
		hub.mu.RUnlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session for %s never registered", userID)
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversEventToSubscriber(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := newHubServer(t, hub, "client-1")

	conn := dialHub(t, srv)
	waitForSession(t, hub, "client-1")

	hub.Publish(context.Background(), domain.BookingEvent{
		Type:      domain.EventBookingRequested,
		BookingID: "booking-1",
		ClientID:  "client-1",
		Status:    domain.BookingStatusRequested,
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got domain.BookingEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("expected event, got read error: %v", err)
	}
	if got.Type != domain.EventBookingRequested || got.BookingID != "booking-1" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestHub_ReconnectKeepsFreshSession(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := newHubServer(t, hub, "client-1")

	first := dialHub(t, srv)
	second := dialHub(t, srv)

	// Registering the second session closes the first connection; wait
	// for the close to surface so the old read loop has wound down.
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected the replaced connection to be closed")
	}
	time.Sleep(50 * time.Millisecond)
	waitForSession(t, hub, "client-1")

	hub.Publish(context.Background(), domain.BookingEvent{
		Type:      domain.EventBookingAssigned,
		BookingID: "booking-1",
		ClientID:  "client-1",
		WalkerID:  "walker-1",
		Status:    domain.BookingStatusAssigned,
	})

	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got domain.BookingEvent
	if err := second.ReadJSON(&got); err != nil {
		t.Fatalf("fresh session lost after reconnect: %v", err)
	}
	if got.Type != domain.EventBookingAssigned {
		t.Errorf("expected %s, got %s", domain.EventBookingAssigned, got.Type)
	}
}
