package domain

import (
	"fmt"
	"time"
)

// Conversation is a two-participant thread. A viewer pair has at most one
// conversation; PairKey makes the uniqueness order-independent.
type Conversation struct {
	ID           int64     `json:"conversation_id"`
	CreatedAt    time.Time `json:"created_at"`
	Participants []Author  `json:"participants"`
}

// Message belongs to exactly one conversation and is immutable once
// created. Listing order is creation time ascending.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Sender         *Author   `json:"sender,omitempty"`
}

// PairKey returns the canonical key for a participant pair, identical for
// either initiating order. Backed by a unique column so starting the same
// conversation twice returns the existing id.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
