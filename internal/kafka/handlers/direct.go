package handlers

import (
	"encoding/json"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/kafka/registry"
)

func init() {
	RegisterDirect("notification-commands", handleDirectCommand)
}

// handleDirectCommand accepts a fully-formed notification command, used
// by internal tooling to push announcements without an originating write.
func handleDirectCommand(data []byte) *registry.Event {
	var cmd struct {
		CommandID string `json:"commandId"`
		Type      string `json:"type"`
		RefID     int64  `json:"refId"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil
	}
	if cmd.Message == "" {
		return nil
	}

	notifType := domain.NotificationType(cmd.Type)
	switch notifType {
	case domain.TypeDiscussion, domain.TypeComment, domain.TypeLike,
		domain.TypeMaterial, domain.TypeEnrollment:
	default:
		return nil
	}

	return &registry.Event{
		Notification: &domain.CreateNotificationInput{
			Type:          notifType,
			RefID:         cmd.RefID,
			Message:       cmd.Message,
			SourceEventID: eventID(cmd.CommandID),
		},
	}
}
