package web

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/frame"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/logging"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 40 * time.Second
	readTimeout  = pingPeriod + writeTimeout
	maxKeySize   = 64
	sendBuffer   = 32
)

// Message is one websocket message from the server.
type Message struct {
	Type   string         `json:"type"` // hello, frame, state or error
	Client string         `json:"client,omitempty"`
	Frame  *gfx.Frame     `json:"frame,omitempty"`
	Stats  *frame.Stats   `json:"stats,omitempty"`
	State  *control.State `json:"state,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func encode(m Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		logging.Error("failed to marshal websocket message", "type", m.Type, "error", err)
		return nil
	}
	return data
}

// Hub fans broadcast messages out to every connected client. A client
// that falls behind misses frames rather than stalling the others.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	last    []byte
}

// NewHub returns a hub without clients.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends m to every client and keeps it for clients that join
// later.
func (h *Hub) Broadcast(m Message) {
	data := encode(m)
	if data == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		c.offer(data)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	if h.last != nil {
		c.offer(h.last)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

type client struct {
	name string
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		name: randomdata.SillyName(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// offer queues data unless the client's buffer is full. Callers hold the
// hub lock, which keeps it from racing with close.
func (c *client) offer(data []byte) {
	select {
	case c.send <- data:
	default:
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
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logging.Debug("ws write msg error", "client", c.name, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logging.Debug("ws write ping error", "client", c.name, "error", err)
				return
			}
		}
	}
}

// readPump applies every text message as a key press and answers the
// sender with the new state or the error.
func (c *client) readPump(h *Hub, b Backend) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxKeySize)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("ws read error", "client", c.name, "error", err)
			}
			return
		}
		key := strings.TrimRight(string(msg), "\r\n")
		s, err := b.Key(key)
		reply := Message{Type: "state", State: &s}
		if err != nil {
			reply = Message{Type: "error", Error: err.Error()}
		}
		if data := encode(reply); data != nil {
			h.mu.Lock()
			if h.clients[c] {
				c.offer(data)
			}
			h.mu.Unlock()
		}
	}
}
