// Package live pushes full collection snapshots to connected admin clients
// over WebSocket. Every change to a watched collection re-sends that
// collection's current result set, mirroring the snapshot semantics of the
// document store's Subscribe.
package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/miraedance/atelier/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client is one connected admin dashboard.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// The feed is one-way; inbound frames only keep the connection alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("live: unexpected close", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
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

// Hub fans collection snapshots out to every connected client. On connect a
// client immediately receives the latest snapshot of each watched collection.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan feedMessage
	register   chan *client
	unregister chan *client

	// last frame per collection, replayed to new connections
	latest map[string][]byte
}

type feedMessage struct {
	collection string
	frame      []byte
}

// NewHub creates the hub. Run it in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan feedMessage, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		latest:     make(map[string][]byte),
	}
}

// Run is the hub event loop.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			for _, frame := range h.latest {
				c.enqueue(frame)
			}
			logger.Info("live: client connected", "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logger.Info("live: client disconnected", "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			h.latest[msg.collection] = msg.frame
			for c := range h.clients {
				if !c.enqueue(msg.frame) {
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

func (c *client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Publish queues a collection snapshot frame for broadcast.
func (h *Hub) Publish(collection string, frame []byte) {
	select {
	case h.broadcast <- feedMessage{collection: collection, frame: frame}:
	default:
		logger.Warn("live: broadcast queue full, frame dropped", "collection", collection)
	}
}

// Serve upgrades the HTTP connection and attaches it to the hub.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("live: upgrade failed", "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- c
	go c.writePump()
	go c.readPump()
}
