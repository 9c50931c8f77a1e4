// Package ws pushes live order notifications to connected vendor dashboards
// over WebSocket. The hub is broadcast-only: clients never send application
// messages, they just hold the socket open.
//
//	hub := ws.NewHub()
//	hub.Publish(vendorID, payload)           // from the order.placed listener
//	hub.Serve(w, r, vendorID)                // from the feed endpoint
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/lastbite/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one open vendor dashboard connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to every connection registered under a vendor ID.
type Hub struct {
	mu      sync.RWMutex
	vendors map[uint]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{vendors: map[uint]map[*client]struct{}{}}
}

// Publish sends payload (JSON-encoded) to every connection of vendorID.
// Slow clients whose buffers are full are disconnected rather than blocking
// the caller.
func (h *Hub) Publish(vendorID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("ws: marshal", "error", err)
		return
	}

	h.mu.RLock()
	clients := h.vendors[vendorID]
	targets := make([]*client, 0, len(clients))
	for c := range clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			h.unregister(vendorID, c)
		}
	}
}

// Serve upgrades the request to a WebSocket and keeps it registered until the
// peer goes away. Blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, vendorID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(vendorID, c)

	go h.writeLoop(vendorID, c)
	h.readLoop(vendorID, c)
}

func (h *Hub) register(vendorID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.vendors[vendorID] == nil {
		h.vendors[vendorID] = map[*client]struct{}{}
	}
	h.vendors[vendorID][c] = struct{}{}
}

func (h *Hub) unregister(vendorID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.vendors[vendorID]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
			if len(clients) == 0 {
				delete(h.vendors, vendorID)
			}
		}
	}
}

// readLoop discards inbound frames but keeps read deadlines fresh so dead
// peers are detected via the ping/pong cycle.
func (h *Hub) readLoop(vendorID uint, c *client) {
	defer func() {
		h.unregister(vendorID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(vendorID uint, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
