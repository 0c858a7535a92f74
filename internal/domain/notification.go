package domain

import "time"

// NotificationType names the write that produced the notification.
type NotificationType string

const (
	TypeDiscussion NotificationType = "discussion"
	TypeComment    NotificationType = "comment"
	TypeLike       NotificationType = "like"
	TypeMaterial   NotificationType = "material"
	TypeEnrollment NotificationType = "enrollment"
)

// Notification is an append-only record of a qualifying write. Only the
// read flag is ever mutated after creation.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	RefID     int64            `json:"ref_id"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

// NotificationWithActor joins the actor's display fields for the list
// endpoint. Actor is nil when the originating row no longer exists.
type NotificationWithActor struct {
	Notification
	Actor *Author `json:"actor"`
}

// CreateNotificationInput is the write-side DTO used by the notifier.
// SourceEventID, when set, deduplicates ingested broker events.
type CreateNotificationInput struct {
	Type          NotificationType
	RefID         int64
	Message       string
	SourceEventID string
}
