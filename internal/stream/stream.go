// Package stream pushes the view of the battery to websocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/clambin/battery-exporter/internal/view"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades the request to a websocket and sends a view.View for every snapshot received from Source.
//
// A client that can't keep up only receives the most recent snapshot.
type Handler struct {
	Source   tracker.Subscriber
	Location *time.Location
	Logger   *slog.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer func() { _ = conn.Close() }()

	logger := h.Logger.With(slog.String("remote", conn.RemoteAddr().String()))
	logger.Debug("client connected")
	defer logger.Debug("client disconnected")

	ch := h.Source.Subscribe()
	defer h.Source.Unsubscribe(ch)

	closed := make(chan struct{})
	go readPump(conn, closed, logger)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case snapshot := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteJSON(view.New(snapshot, h.Location)); err != nil {
				logger.Debug("write failed", slog.Any("err", err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping failed", slog.Any("err", err))
				return
			}
		}
	}
}

// readPump discards incoming messages, so control frames get processed, and closes closed once the connection fails.
func readPump(conn *websocket.Conn, closed chan<- struct{}, logger *slog.Logger) {
	defer close(closed)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("read failed", slog.Any("err", err))
			}
			return
		}
	}
}
