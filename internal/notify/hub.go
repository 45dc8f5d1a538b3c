// Package notify pushes status events to connected clients over WebSocket,
// replacing polling on the pickup and mass-collection tracking views.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	readDeadline = 60 * time.Second
)

// Event is the wire shape of every push.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// PickupUpdate notifies the owning user of a pickup status change.
type PickupUpdate struct {
	PickupID       int64  `json:"pickup_id"`
	Status         string `json:"status"`
	TrackingNote   string `json:"tracking_note"`
	UpdatedAt      string `json:"updated_at"`
	DeviceName     string `json:"device_name,omitempty"`
	CreditsAwarded int    `json:"credits_awarded"`
}

// MassCollectionUpdate is broadcast to every client; tracking is email-keyed
// so there is no single owning user to target.
type MassCollectionUpdate struct {
	CollectionID int64  `json:"collection_id"`
	Status       string `json:"status"`
	TrackingNote string `json:"tracking_note"`
	UpdatedAt    string `json:"updated_at"`
	OrgName      string `json:"org_name"`
}

// client serializes writes to one socket. gorilla/websocket allows a single
// concurrent writer per connection, and pushes, broadcasts and keep-alive
// pings all arrive from different goroutines.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks live connections per user. A user may hold several connections
// (multiple tabs), so each gets its own id.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]map[string]*client
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:  make(map[int64]map[string]*client),
		logger: logger,
	}
}

// Register adds the connection under the user and returns the connection id
// to pass back to Unregister.
func (h *Hub) Register(userID int64, conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[string]*client)
	}
	h.conns[userID][id] = &client{conn: conn}
	h.mu.Unlock()

	h.logger.Debug("ws connection registered",
		zap.Int64("user_id", userID), zap.String("conn_id", id))
	return id
}

func (h *Hub) Unregister(userID int64, connID string) {
	h.mu.Lock()
	if m := h.conns[userID]; m != nil {
		delete(m, connID)
		if len(m) == 0 {
			delete(h.conns, userID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) lookup(userID int64, connID string) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[userID][connID]
}

// SendTo delivers the event to one connection of the user; a missing or dead
// connection reports an error so the caller can stop serving it.
func (h *Hub) SendTo(userID int64, connID string, event Event) error {
	c := h.lookup(userID, connID)
	if c == nil {
		return websocket.ErrCloseSent
	}
	return c.writeJSON(event)
}

// SendToUser delivers the event to every live connection of the user. A user
// with no connections is not an error. Dead connections are dropped.
func (h *Hub) SendToUser(userID int64, event Event) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.conns[userID]))
	for id, c := range h.conns[userID] {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.writeJSON(event); err != nil {
			h.logger.Debug("ws write failed, dropping connection",
				zap.Int64("user_id", userID), zap.String("conn_id", id), zap.Error(err))
			h.Unregister(userID, id)
		}
	}
}

// Broadcast delivers the event to every connection.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	type target struct {
		userID int64
		connID string
		client *client
	}
	var targets []target
	for userID, m := range h.conns {
		for id, c := range m {
			targets = append(targets, target{userID, id, c})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		if err := t.client.writeJSON(event); err != nil {
			h.Unregister(t.userID, t.connID)
		}
	}
}

// KeepAlive pings the connection until it dies, resetting the read deadline
// on every pong. Blocks; run per connection after registering.
func (h *Hub) KeepAlive(userID int64, connID string) {
	c := h.lookup(userID, connID)
	if c == nil {
		return
	}
	defer h.Unregister(userID, connID)

	conn := c.conn
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
