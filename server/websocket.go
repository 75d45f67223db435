package server

import (
	"net/http"
	"time"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/events"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebsocket streams the change events visible to the caller until
// the client disconnects or the server shuts down.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var feed <-chan events.Event
	if s.events != nil {
		feed = s.events.Subscribe()
		defer s.events.Unsubscribe(feed)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
		return
	}
	conn.SetReadLimit(512)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-closed
	}()

	s.logger.Debug("websocket connected", zap.String("user", p.UserID))

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-feed:
			if !ok {
				message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
				_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeTimeout))
				return
			}
			if event.Name == events.ListablesLoaded || !event.Visible(p.UserID) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Debug("websocket write failed", zap.String("user", p.UserID), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
