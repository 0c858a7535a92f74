package application

import (
	"context"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Broadcaster is the interface for pushing events to connected clients.
// Implementation lives in transport/http/sse_hub.go.
type Broadcaster interface {
	// BroadcastNotification delivers to every connected client.
	BroadcastNotification(n *domain.Notification)
	// BroadcastTrending delivers the trending snapshot to every client.
	BroadcastTrending(posts []domain.TrendingPost)
	// SendToConversation delivers only to clients joined to the conversation.
	SendToConversation(conversationID int64, m *domain.Message)
}

// Notifier is the write-then-notify pipeline stage: it persists the
// notification row first and attempts realtime delivery only after the
// insert succeeded. Delivery is best-effort and never fails the caller —
// a persistence failure here is logged, not propagated, so the triggering
// write stands either way.
type Notifier struct {
	repo domain.NotificationRepository
	hub  Broadcaster
}

// NewNotifier creates a Notifier. The hub is injected, never a global.
func NewNotifier(repo domain.NotificationRepository, hub Broadcaster) *Notifier {
	return &Notifier{repo: repo, hub: hub}
}

// Notify records the event and pushes it to the global channel. Returns
// the persisted record, or nil when the insert failed or deduplicated.
func (n *Notifier) Notify(ctx context.Context, in domain.CreateNotificationInput) *domain.Notification {
	rec, err := n.repo.Create(ctx, in)
	if err != nil {
		log.Error().Err(err).
			Str("type", string(in.Type)).
			Int64("ref_id", in.RefID).
			Msg("notification insert failed, realtime delivery skipped")
		return nil
	}
	if rec == nil {
		// Duplicate source_event_id — idempotent, not an error.
		return nil
	}

	// Non-blocking broadcast
	go n.hub.BroadcastNotification(rec)

	log.Info().
		Int64("id", rec.ID).
		Str("type", string(rec.Type)).
		Int64("ref_id", rec.RefID).
		Msg("notification created and broadcast")

	return rec
}

// List returns the notification log, newest first, with actor details.
func (n *Notifier) List(ctx context.Context) ([]domain.NotificationWithActor, error) {
	return n.repo.List(ctx)
}

// SetRead flips the read flag on a single notification.
func (n *Notifier) SetRead(ctx context.Context, id int64, read bool) (*domain.Notification, error) {
	return n.repo.SetRead(ctx, id, read)
}

// MarkAllRead marks every unread notification as read.
func (n *Notifier) MarkAllRead(ctx context.Context) (int64, error) {
	return n.repo.MarkAllRead(ctx)
}

// CountUnread returns the unread badge count.
func (n *Notifier) CountUnread(ctx context.Context) (int64, error) {
	return n.repo.CountUnread(ctx)
}
