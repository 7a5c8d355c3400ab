package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 64
)

// Client is a single websocket subscriber. Operators subscribe to every
// dispatch event; a client with a driver ID additionally receives events
// addressed to that driver.
type Client struct {
	id       string
	driverID string
	conn     *websocket.Conn
	logger   *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient wraps an upgraded connection. driverID is empty for operator
// subscribers.
func NewClient(id, driverID string, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:       id,
		driverID: driverID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		logger:   logger.With("component", "ws_client", "client_id", id),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) DriverID() string {
	return c.driverID
}

// trySend enqueues a message without blocking. It reports false when the
// client is closed or its buffer is full.
func (c *Client) trySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump drains the send channel into the connection and keeps the
// connection alive with periodic pings. It returns when the peer goes away
// or the hub closes the send channel.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes and discards inbound frames so that control messages
// are processed. It returns when the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
