package socket

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub tracks the websocket connection of each signed-in user so the server
// can push notifications as they happen. One connection per user; a new
// connection replaces the old one.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		log:     log,
	}
}

// Register adds a client connection keyed by user ID.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	h.log.Debug().Str("userId", userID).Msg("websocket client registered")
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		h.log.Debug().Str("userId", userID).Msg("websocket client unregistered")
	}
}

// Send delivers a message to one user. An offline user is not an error; the
// push is best effort and the persisted notification remains.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[userID]
	if !ok {
		return nil
	}

	return conn.WriteMessage(websocket.TextMessage, message)
}
