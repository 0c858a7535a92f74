package handlers

import (
	"testing"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/kafka/registry"
)

func TestMaterialUploaded(t *testing.T) {
	ev := registry.Dispatch("material-events", []byte(`{
		"eventType": "MATERIAL_UPLOADED",
		"eventId": "7f9c24e8-3b2a-4f1d-9e6c-8a5b4c3d2e1f",
		"payload": {"materialId": 12, "title": "Databases lecture 4"}
	}`))
	if ev == nil || ev.Notification == nil {
		t.Fatal("expected a notification event")
	}

	n := ev.Notification
	if n.Type != domain.TypeMaterial || n.RefID != 12 {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.SourceEventID != "7f9c24e8-3b2a-4f1d-9e6c-8a5b4c3d2e1f" {
		t.Fatalf("dedup key lost: %q", n.SourceEventID)
	}
}

func TestMaterialUploaded_IncompletePayloadSkipped(t *testing.T) {
	ev := registry.Dispatch("material-events", []byte(`{
		"eventType": "MATERIAL_UPLOADED",
		"payload": {"title": "missing id"}
	}`))
	if ev != nil {
		t.Fatal("incomplete payload must be skipped")
	}
}

func TestStudentEnrolled(t *testing.T) {
	ev := registry.Dispatch("enrollment-events", []byte(`{
		"eventType": "STUDENT_ENROLLED",
		"eventId": "2a1b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
		"payload": {"studentId": 3, "moduleId": 9}
	}`))
	if ev == nil || ev.Enrollment == nil {
		t.Fatal("expected an enrollment event")
	}
	if ev.Enrollment.StudentID != 3 || ev.Enrollment.ModuleID != 9 {
		t.Fatalf("unexpected grant: %+v", ev.Enrollment)
	}
}

func TestDirectCommand_RejectsUnknownType(t *testing.T) {
	ev := registry.DispatchDirect("notification-commands", []byte(`{
		"type": "bogus", "refId": 1, "message": "hello"
	}`))
	if ev != nil {
		t.Fatal("unknown notification type must be skipped")
	}
}

func TestDirectCommand_ValidType(t *testing.T) {
	ev := registry.DispatchDirect("notification-commands", []byte(`{
		"commandId": "b6a4e1c2-7d8f-4e9a-b0c1-d2e3f4a5b6c7",
		"type": "like", "refId": 4, "message": "manual announcement"
	}`))
	if ev == nil || ev.Notification == nil || ev.Notification.Type != domain.TypeLike {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestEventID_InvalidUUIDMeansNoDedup(t *testing.T) {
	if got := eventID("not-a-uuid"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
	if got := eventID("550e8400-e29b-41d4-a716-446655440000"); got == "" {
		t.Fatal("valid uuid rejected")
	}
}
