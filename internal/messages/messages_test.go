package messages_test

import (
	"testing"

	"github.com/peerconnect/backend/internal/messages"
)

func TestNewLike_FallsBackToAnonymous(t *testing.T) {
	if got := messages.NewLike("", ""); got != "👍 Someone liked your post" {
		t.Fatalf("got %q", got)
	}
	if got := messages.NewLike("Unknown", ""); got != "👍 Someone liked your post" {
		t.Fatalf("got %q", got)
	}
}

func TestNewLike_UsesFullName(t *testing.T) {
	if got := messages.NewLike("Ada", "Lovelace"); got != "👍 Ada Lovelace liked your post" {
		t.Fatalf("got %q", got)
	}
}

func TestNewPost(t *testing.T) {
	got := messages.NewPost("Ada", "Lovelace", "Exam prep")
	if got != "📝 Ada Lovelace created a new post: Exam prep" {
		t.Fatalf("got %q", got)
	}
}

func TestEnrollmentGranted(t *testing.T) {
	got := messages.EnrollmentGranted("Databases")
	if got != "🎓 You have been enrolled in Databases" {
		t.Fatalf("got %q", got)
	}
}
