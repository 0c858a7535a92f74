package http

import (
	"encoding/json"
	"sync"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// SSE event names pushed to connected clients.
const (
	eventNotification = "new_notification"
	eventTrending     = "trending_update"
	eventMessage      = "receive_message"
)

// Client is one connected SSE stream. A client belongs to the implicit
// global group and to the conversation groups it declared at connect.
type Client struct {
	conversations map[int64]bool
	send          chan []byte
}

// Hub manages all active SSE connections: one global broadcast group and
// explicit per-conversation groups. Single-instance model: all delivery
// is in-process. For multi-instance: replace with Redis Pub/Sub.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client. conversationIDs are the conversation groups the
// client joins; there is no implicit join on conversation creation.
func (h *Hub) Register(conversationIDs []int64, send chan []byte) *Client {
	c := &Client{
		conversations: make(map[int64]bool, len(conversationIDs)),
		send:          send,
	}
	for _, id := range conversationIDs {
		c.conversations[id] = true
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Int("conversations", len(conversationIDs)).Msg("SSE client connected")
	return c
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	log.Debug().Msg("SSE client disconnected")
}

// BroadcastNotification delivers a notification to every connected
// client. Satisfies application.Broadcaster.
func (h *Hub) BroadcastNotification(n *domain.Notification) {
	h.broadcast(buildEvent(eventNotification, n))
}

// BroadcastTrending delivers the trending snapshot to every client.
func (h *Hub) BroadcastTrending(posts []domain.TrendingPost) {
	h.broadcast(buildEvent(eventTrending, posts))
}

// SendToConversation delivers a message to every client joined to the
// conversation group and to no one else.
func (h *Hub) SendToConversation(conversationID int64, m *domain.Message) {
	msg := buildEvent(eventMessage, m)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.conversations[conversationID] {
			continue
		}
		c.deliver(msg)
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.deliver(msg)
	}
}

// deliver is fire-and-forget: a client whose buffer is full is skipped,
// and recovers missed events from the read APIs on reconnect.
func (c *Client) deliver(msg []byte) {
	select {
	case c.send <- msg:
	default:
		log.Warn().Msg("SSE client send buffer full, skipping")
	}
}

// ConnectedCount returns the number of connected SSE clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// buildEvent formats a payload as an SSE frame.
func buildEvent(event string, payload any) []byte {
	b, _ := json.Marshal(payload)
	return []byte("event: " + event + "\ndata: " + string(b) + "\n\n")
}
