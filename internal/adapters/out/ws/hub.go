// Package ws pushes dispatch events to connected operator consoles and
// driver apps over websockets.
package ws

import (
	"log/slog"
	"sync"
)

// Hub tracks connected subscribers and fans events out to them. Sends are
// non-blocking: a subscriber whose buffer is full is dropped rather than
// allowed to stall dispatch.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.With("component", "ws_hub"),
	}
}

// Register adds a subscriber.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID()] = client
}

// Unregister removes a subscriber and closes its send channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	client.closeSend()
}

// Broadcast delivers a message to every operator subscriber.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.DriverID() != "" {
			continue
		}
		h.deliver(client, message)
	}
}

// SendToDriver delivers a message to every subscriber registered for the
// given driver.
func (h *Hub) SendToDriver(driverID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.DriverID() != driverID {
			continue
		}
		h.deliver(client, message)
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(client *Client, message []byte) {
	if !client.trySend(message) {
		h.logger.Warn("subscriber buffer full, dropping client", "client_id", client.ID())
		go h.Unregister(client.ID())
	}
}
