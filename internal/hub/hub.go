// Package hub owns the live connection table and performs fan-out
// delivery over it. Delivery is fire-and-forget: no acknowledgment, no
// retry, FIFO only per connection.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/relaychat/relay/pkg/log"
)

// MemberResolver resolves room membership at dispatch time. Implemented
// by the room index so the hub stays ignorant of membership rules.
type MemberResolver interface {
	MembersOf(room string) []string
}

// Hub tracks connected clients by id. Registration is synchronous so a
// client is addressable before its first inbound event is handled.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   MemberResolver
}

func NewHub(rooms MemberResolver) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   rooms,
	}
}

// Register adds a client to the connection table.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnectionID, client.ID).Msg("client registered")
}

// Unregister drops a client and closes its send channel. Safe to call
// more than once for the same client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	if ok {
		l := log.L()
		l.Debug().Str(log.FieldConnectionID, client.ID).Msg("client unregistered")
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ToAll delivers an event to every currently connected session.
func (h *Hub) ToAll(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		h.push(client, data)
	}
}

// ToRoom delivers an event to the room's members as resolved right
// now, not at some later queue-drain time.
func (h *Hub) ToRoom(room string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	members := h.rooms.MembersOf(room)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, connID := range members {
		if client, ok := h.clients[connID]; ok {
			h.push(client, data)
		}
	}
}

// ToConnection delivers an event to a single connection. Unknown ids
// are dropped silently; disconnect races are not errors.
func (h *Hub) ToConnection(connID string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[connID]; ok {
		h.push(client, data)
	}
}

// push queues data for one client without blocking. A client that
// cannot keep up is cut loose; its pumps handle the close.
func (h *Hub) push(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		go h.Unregister(client)
	}
}
