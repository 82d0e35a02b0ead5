package ws

import (
	"encoding/json"
	"sync"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"
)

// Hub fans transaction events out to every connected admin.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	logger.Info("admin feed client connected", "user_id", c.UserID, "clients", n)
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.Send)
	n := len(h.clients)
	h.mu.Unlock()
	logger.Info("admin feed client disconnected", "user_id", c.UserID, "clients", n)
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts a transaction event.
func (h *Hub) Publish(event string, tx domain.Transaction) {
	msg, err := json.Marshal(Message{Type: event, Transaction: &tx})
	if err != nil {
		logger.Error("failed to encode admin event", "error", err, "event", event)
		return
	}
	h.Broadcast(msg)
}

// Broadcast queues msg for every client. A client whose buffer is full is
// dropped instead of stalling the caller.
func (h *Hub) Broadcast(msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("dropping slow admin feed client", "user_id", c.UserID)
		h.Unregister(c)
	}
}

// send queues msg for a single client if it is still registered.
func (h *Hub) send(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close disconnects every client, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}
