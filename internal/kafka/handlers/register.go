package handlers

import (
	"github.com/google/uuid"

	"github.com/peerconnect/backend/internal/kafka/registry"
)

// Register is a convenience alias so each handler file calls Register(...)
// instead of registry.Register(...), keeping imports minimal.
func Register(topic, eventType string, h registry.EventHandler) {
	registry.Register(topic, eventType, h)
}

// RegisterDirect registers a handler for topics without eventType routing.
func RegisterDirect(topic string, h registry.EventHandler) {
	registry.Register(topic, "", h)
}

// eventID validates a broker event id. Only well-formed UUIDs are used as
// dedup keys; anything else means "no dedup" rather than a poisoned key.
func eventID(raw string) string {
	if _, err := uuid.Parse(raw); err != nil {
		return ""
	}
	return raw
}
