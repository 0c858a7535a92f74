package handlers

import (
	"encoding/json"

	"github.com/peerconnect/backend/internal/kafka/registry"
)

func init() {
	Register("enrollment-events", "STUDENT_ENROLLED", handleStudentEnrolled)
}

type enrollmentEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		StudentID int64 `json:"studentId"`
		ModuleID  int64 `json:"moduleId"`
	} `json:"payload"`
}

// handleStudentEnrolled turns a registry-service event into an enrollment
// grant. The grant itself is idempotent; the notification is deduplicated
// on the event id.
func handleStudentEnrolled(data []byte) *registry.Event {
	var env enrollmentEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if env.Payload.StudentID == 0 || env.Payload.ModuleID == 0 {
		return nil
	}

	return &registry.Event{
		Enrollment: &registry.Enrollment{
			StudentID:     env.Payload.StudentID,
			ModuleID:      env.Payload.ModuleID,
			SourceEventID: eventID(env.EventID),
		},
	}
}
