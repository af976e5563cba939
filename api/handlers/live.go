package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/events"
)

const (
	liveBuffer    = 32
	liveWriteWait = 10 * time.Second
)

// LiveHub pushes every domain event to the connected admin websocket clients
type LiveHub struct {
	upgrader websocket.Upgrader
	mutex    sync.Mutex
	clients  map[*liveClient]struct{}
}

type liveClient struct {
	conn *websocket.Conn
	send chan events.Event
}

// NewLiveHub returns a hub with no clients
func NewLiveHub() *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the feed is token-authenticated, so any dashboard origin may connect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*liveClient]struct{}),
	}
}

// Handle queues e for every client. A client whose queue is full is disconnected.
func (h *LiveHub) Handle(e events.Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- e:
		default:
			zap.S().Warnw("dropping slow live feed client", "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients
func (h *LiveHub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// FeedHandler upgrades the request and streams events until the client goes away
func (h *LiveHub) FeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &liveClient{conn: conn, send: make(chan events.Event, liveBuffer)}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	zap.S().Infow("live feed client connected", "remote", conn.RemoteAddr().String())

	go h.writeLoop(c)

	// clients only listen; reading surfaces the close
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	h.mutex.Lock()
	h.removeLocked(c)
	h.mutex.Unlock()
	_ = conn.Close()
	zap.S().Infow("live feed client disconnected", "remote", conn.RemoteAddr().String())
}

func (h *LiveHub) writeLoop(c *liveClient) {
	for e := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := c.conn.WriteJSON(e); err != nil {
			zap.S().Debugw("failed to send live event", "kind", e.Kind, "error", err)
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(liveWriteWait))
	_ = c.conn.Close()
}

func (h *LiveHub) removeLocked(c *liveClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
