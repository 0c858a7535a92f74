// Package registry provides a lightweight event handler registry for
// broker events. Each domain handler registers itself via init(), so the
// consumer never changes when a new event kind is added.
package registry

import (
	"encoding/json"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Event is the normalized outcome of an ingested broker record. Exactly
// one of the fields is set.
type Event struct {
	// Notification is persisted and broadcast by the notifier.
	Notification *domain.CreateNotificationInput
	// Enrollment upserts a scope grant for the student.
	Enrollment *Enrollment
}

// Enrollment is a grant command from the registry service.
type Enrollment struct {
	StudentID     int64
	ModuleID      int64
	SourceEventID string
}

// EventHandler maps raw broker message bytes to an Event.
// Returning nil means "skip this record".
type EventHandler func(data []byte) *Event

var handlers = map[string]EventHandler{}

// Register binds a handler to a {topic}:{eventType} key. Called from each
// handler file's init(). Panics on duplicates to catch wiring mistakes
// at startup.
func Register(topic, eventType string, h EventHandler) {
	key := topic + ":" + eventType
	if _, exists := handlers[key]; exists {
		panic("registry: duplicate handler registered for key: " + key)
	}
	handlers[key] = h
}

// Dispatch looks up and calls the handler for topic + eventType, where
// eventType is probed from the record's "eventType" JSON field.
// Returns nil when no handler matches or the data cannot be parsed.
func Dispatch(topic string, data []byte) *Event {
	var probe struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("registry: failed to probe eventType")
		return nil
	}

	key := topic + ":" + probe.EventType
	h, ok := handlers[key]
	if !ok {
		log.Debug().Str("key", key).Msg("registry: no handler registered")
		return nil
	}
	return h(data)
}

// DispatchDirect calls the handler registered for a topic without
// eventType routing, for topics where the whole message is the command.
func DispatchDirect(topic string, data []byte) *Event {
	h, ok := handlers[topic+":"]
	if !ok {
		return nil
	}
	return h(data)
}
