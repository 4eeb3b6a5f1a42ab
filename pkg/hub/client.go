package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mehular0ra/pingme/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 10 * 1024 * 1024 // 10MB
)

// Client is one live WebSocket connection. UserCode is set once a register
// event binds it; a connection that disconnects before registering never
// had an identity.
type Client struct {
	Hub        *Hub
	UserCode   string
	Conn       *websocket.Conn
	remoteAddr string

	send   chan []byte
	mu     sync.Mutex
	closed bool
}

func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		Hub:        h,
		Conn:       conn,
		remoteAddr: conn.RemoteAddr().String(),
		send:       make(chan []byte, 256),
	}
}

// Deliver queues an event for the connection. It reports false when the
// connection is closed or its buffer is full; callers treat both the same
// as the session being unreachable.
func (c *Client) Deliver(event models.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket read error", "error", err)
			}
			break
		}

		var event models.Event
		if err := json.Unmarshal(message, &event); err != nil {
			c.Hub.logger.Warn("Malformed WebSocket frame", "error", err)
			continue
		}

		c.Hub.Inbound <- inbound{client: c, event: event}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued events into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
