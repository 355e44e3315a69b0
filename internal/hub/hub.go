// Package hub implements the live relay: a process-wide registry of one
// websocket connection per Telegram identity. Delivery is best-effort and
// independent of chat persistence; a missed push is recovered by the
// recipient's next history fetch, never retried here.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
	"github.com/The-One-Reborn-developer/servis-plus/internal/metrics"
)

// Hub maintains the set of connected clients, keyed by Telegram ID. All map
// mutations and lookups go through the mutex so a connecting or disconnecting
// identity is never delivered to a stale handle.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client
	logger  *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]*Client),
		logger:  logger,
	}
}

// HandleNewClient wires an upgraded websocket connection into the registry
// and starts its read/write pumps.
func (h *Hub) HandleNewClient(conn *websocket.Conn, telegramID int64) {
	client := newClient(h, conn, telegramID)
	h.register(client)
	go client.writePump()
	go client.readPump()
}

// register associates the client with its identity. A new connection from
// the same identity replaces the prior one; the replaced client is shut down.
func (h *Hub) register(client *Client) {
	h.mu.Lock()
	prior, replaced := h.clients[client.TelegramID]
	h.clients[client.TelegramID] = client
	h.mu.Unlock()

	if replaced {
		h.logger.Info("replacing live connection",
			zap.Int64("telegram_id", client.TelegramID))
		prior.shutdown()
	} else {
		metrics.RelayConnections.Inc()
	}
}

// unregister removes the client if it is still the current handle for its
// identity. A client replaced by a newer connection leaves the newer entry
// untouched.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.TelegramID]
	if ok && current == client {
		delete(h.clients, client.TelegramID)
		metrics.RelayConnections.Dec()
	}
	h.mu.Unlock()

	client.shutdown()
}

// Deliver pushes one delivery event to the recipient if connected. Returns
// false when the recipient has no live connection or their send buffer is
// full; the caller treats both as a notification miss, not an error.
func (h *Hub) Deliver(recipientTelegramID int64, payload domain.RelayPayload) bool {
	msg, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal relay payload", zap.Error(err))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[recipientTelegramID]
	if !ok {
		return false
	}

	select {
	case client.Send <- msg:
		return true
	default:
		h.logger.Warn("relay send buffer full, dropping push",
			zap.Int64("telegram_id", recipientTelegramID))
		return false
	}
}

// Connected reports whether an identity currently holds a live connection.
func (h *Hub) Connected(telegramID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[telegramID]
	return ok
}

// Clear tears down every live connection. Used on shutdown.
func (h *Hub) Clear() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[int64]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.shutdown()
		metrics.RelayConnections.Dec()
	}
}
