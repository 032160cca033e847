// Package realtime pushes events to connected clients over websockets.
// Delivery is fire-and-forget and at-most-once: a broadcast never blocks
// the request path, and a client whose send buffer is full misses the
// event rather than stalling everyone else.
package realtime

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kyledinardi/odin-book-backend/internal/metrics"
)

// Channel names. Every user joins their own channel on connect; chat room
// channels are joined on demand.
const (
	userChannelPrefix = "user-"
	roomChannelPrefix = "room-"
)

// Event names pushed to clients
const (
	EventNewMessage      = "addNewMessage"
	EventReplaceMessage  = "replaceMessage"
	EventRemoveMessage   = "removeMessage"
	EventIsTyping        = "receiveIsTyping"
	EventNewNotification = "receiveNotification"
	EventNewPost         = "receiveNewPost"
)

// Envelope is the wire frame for one pushed event
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// client is one connected websocket, owned by its writer goroutine
type client struct {
	send     chan []byte
	channels map[string]bool
}

// Hub tracks connected clients and their channel memberships
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// UserChannel is the per-user channel key
func UserChannel(userID uint) string {
	return userChannelPrefix + itoa(userID)
}

// RoomChannel is the per-chat-room channel key
func RoomChannel(roomID uint) string {
	return roomChannelPrefix + itoa(roomID)
}

// Broadcast sends the event to every client subscribed to the channel.
// Slow clients are skipped, never waited on.
func (h *Hub) Broadcast(channel, event string, payload any) {
	frame, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		logrus.WithError(err).Warn("realtime: drop unmarshalable broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.channels[channel] {
			continue
		}
		select {
		case c.send <- frame:
			metrics.BroadcastsSent.WithLabelValues(event).Inc()
		default:
			metrics.BroadcastsDropped.WithLabelValues(event).Inc()
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) join(c *client, channel string) {
	h.mu.Lock()
	c.channels[channel] = true
	h.mu.Unlock()
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
