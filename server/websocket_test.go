package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/lists/internal/events"
	"github.com/gorilla/websocket"
)

func dialEvents(t *testing.T, url, token string) (*websocket.Conn, error) {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func TestWebsocketStreamsVisibleEvents(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice", "alice@example.com")
	bob := ts.register(t, "Bob", "bob@example.com")

	httpServer := httptest.NewServer(ts.handler)
	defer httpServer.Close()
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, err := dialEvents(t, url, alice.Token)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ts.events.Trigger(events.Event{Name: events.ListableChanged, UserID: bob.User.ID, ListID: "bobs", Audience: []string{bob.User.ID}})
	ts.events.Trigger(events.Event{Name: events.ListablesLoaded, UserID: alice.User.ID})
	ts.events.Trigger(events.Event{Name: events.ListableChanged, UserID: alice.User.ID, ListID: "alices", Audience: []string{alice.User.ID}})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event events.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Name != events.ListableChanged || event.ListID != "alices" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestWebsocketRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	httpServer := httptest.NewServer(ts.handler)
	defer httpServer.Close()
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, err := dialEvents(t, url, "")
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake to fail without a token")
	}
}

func TestWebsocketClosesOnShutdown(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice", "alice@example.com")

	httpServer := httptest.NewServer(ts.handler)
	defer httpServer.Close()
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, err := dialEvents(t, url, alice.Token)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ts.events.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going away close, got %v", err)
	}
}
