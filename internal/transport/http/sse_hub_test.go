package http

import (
	"strings"
	"testing"

	"github.com/peerconnect/backend/internal/domain"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case b := <-ch:
		return string(b)
	default:
		t.Fatal("expected a frame")
		return ""
	}
}

func TestBroadcastNotification_ReachesAllClients(t *testing.T) {
	hub := NewHub()
	a := make(chan []byte, 1)
	b := make(chan []byte, 1)
	hub.Register(nil, a)
	hub.Register([]int64{5}, b)

	hub.BroadcastNotification(&domain.Notification{ID: 1, Type: domain.TypeLike})

	for _, ch := range []chan []byte{a, b} {
		frame := recv(t, ch)
		if !strings.HasPrefix(frame, "event: new_notification\n") {
			t.Fatalf("wrong frame: %q", frame)
		}
	}
}

func TestSendToConversation_OnlyJoinedClients(t *testing.T) {
	hub := NewHub()
	joined := make(chan []byte, 1)
	other := make(chan []byte, 1)
	hub.Register([]int64{7}, joined)
	hub.Register([]int64{8}, other)

	hub.SendToConversation(7, &domain.Message{ID: 1, ConversationID: 7, Content: "hi"})

	frame := recv(t, joined)
	if !strings.HasPrefix(frame, "event: receive_message\n") {
		t.Fatalf("wrong frame: %q", frame)
	}
	select {
	case f := <-other:
		t.Fatalf("client outside the group received %q", f)
	default:
	}
}

func TestDeliver_SkipsSlowClient(t *testing.T) {
	hub := NewHub()
	full := make(chan []byte) // unbuffered, nobody reading
	healthy := make(chan []byte, 1)
	hub.Register(nil, full)
	hub.Register(nil, healthy)

	// Must not block even though one client cannot accept.
	hub.BroadcastTrending([]domain.TrendingPost{{ID: 1}})

	if frame := recv(t, healthy); !strings.HasPrefix(frame, "event: trending_update\n") {
		t.Fatalf("wrong frame: %q", frame)
	}
}

func TestUnregister_StopsDelivery(t *testing.T) {
	hub := NewHub()
	ch := make(chan []byte, 1)
	c := hub.Register(nil, ch)
	hub.Unregister(c)

	hub.BroadcastNotification(&domain.Notification{ID: 1})
	select {
	case f := <-ch:
		t.Fatalf("unregistered client received %q", f)
	default:
	}
	if hub.ConnectedCount() != 0 {
		t.Fatal("client count not zero after unregister")
	}
}
