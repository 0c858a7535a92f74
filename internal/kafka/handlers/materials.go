package handlers

import (
	"encoding/json"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/kafka/registry"
	"github.com/peerconnect/backend/internal/messages"
)

func init() {
	Register("material-events", "MATERIAL_UPLOADED", handleMaterialUploaded)
}

type materialEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		MaterialID int64  `json:"materialId"`
		Title      string `json:"title"`
	} `json:"payload"`
}

// handleMaterialUploaded announces uploads made through the standalone
// upload pipeline. The metadata row is already persisted by that service;
// only the notification is ours.
func handleMaterialUploaded(data []byte) *registry.Event {
	var env materialEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if env.Payload.MaterialID == 0 || env.Payload.Title == "" {
		return nil
	}

	return &registry.Event{
		Notification: &domain.CreateNotificationInput{
			Type:          domain.TypeMaterial,
			RefID:         env.Payload.MaterialID,
			Message:       messages.NewMaterial(env.Payload.Title),
			SourceEventID: eventID(env.EventID),
		},
	}
}
