package domain

import "context"

// Repository ports. Implementations live in infrastructure/postgres.

// DiscussionRepository is the persistence port for the feed.
type DiscussionRepository interface {
	// VisibleModuleIDs returns the union of the student's subscription and
	// enrollment grants. Duplicates collapse; an empty result is valid.
	VisibleModuleIDs(ctx context.Context, studentID int64) ([]int64, error)

	// ListPosts runs the scoped feed query. moduleIDs is the viewer's
	// visible scope set; the filter must already be normalized.
	ListPosts(ctx context.Context, moduleIDs []int64, f PostFilter) ([]Post, error)

	// GetPost fetches one post with author and module display fields.
	GetPost(ctx context.Context, id int64) (*Post, error)

	// IncrementViews bumps the view counter by one.
	IncrementViews(ctx context.Context, id int64) error

	// ListComments returns a post's comments in creation order ascending.
	ListComments(ctx context.Context, postID int64) ([]Comment, error)

	CreatePost(ctx context.Context, in CreatePostInput) (*Post, error)
	AddComment(ctx context.Context, postID, studentID int64, content string) (*Comment, error)

	// ToggleLike atomically inserts or removes the (post, student) like row
	// and adjusts the counter, floored at zero. Returns the resulting state.
	ToggleLike(ctx context.Context, postID, studentID int64) (liked bool, err error)

	TopPosts(ctx context.Context, limit int) ([]TrendingPost, error)

	// TrendingByIDs hydrates trending entries for the given post ids,
	// preserving the input order. Missing ids are skipped.
	TrendingByIDs(ctx context.Context, ids []int64) ([]TrendingPost, error)

	Tags(ctx context.Context) ([]TagCount, error)
	Stats(ctx context.Context) (*BoardStats, error)
}

// StudentRepository resolves display fields for actors.
type StudentRepository interface {
	// DisplayAuthor never fails on a missing student; it degrades to the
	// "Unknown" placeholder instead.
	DisplayAuthor(ctx context.Context, studentID int64) (Author, error)
}

// ModuleRepository covers modules and scope grants.
type ModuleRepository interface {
	List(ctx context.Context) ([]Module, error)
	GetByID(ctx context.Context, id int64) (*Module, error)

	// Subscribe inserts a subscription grant, ignoring duplicates.
	// inserted is false when the grant already existed.
	Subscribe(ctx context.Context, studentID, moduleID int64) (sub *Subscription, inserted bool, err error)
	Subscriptions(ctx context.Context, studentID int64) ([]Subscription, error)
	Unsubscribe(ctx context.Context, subscriptionID int64) error

	// GrantEnrollment upserts an enrollment grant (broker-driven).
	GrantEnrollment(ctx context.Context, studentID, moduleID int64) error
}

// MessageRepository covers conversations and direct messages.
type MessageRepository interface {
	// StartConversation returns the existing conversation for the pair or
	// creates one; both initiating orders yield the same id.
	StartConversation(ctx context.Context, senderID, recipientID int64) (int64, error)

	ListConversations(ctx context.Context, studentID int64) ([]Conversation, error)
	IsParticipant(ctx context.Context, conversationID, studentID int64) (bool, error)
	CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
}

// NotificationRepository persists the append-only notification log.
type NotificationRepository interface {
	// Create inserts a notification. Returns (nil, nil) when a duplicate
	// source_event_id makes the insert an idempotent no-op.
	Create(ctx context.Context, in CreateNotificationInput) (*Notification, error)

	List(ctx context.Context) ([]NotificationWithActor, error)
	SetRead(ctx context.Context, id int64, read bool) (*Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

// MaterialRepository covers study material metadata. File bytes live in
// external storage; only the resolved URL is persisted here.
type MaterialRepository interface {
	List(ctx context.Context, f MaterialFilter) ([]Material, error)
	Get(ctx context.Context, id int64) (*Material, error)
	Create(ctx context.Context, in CreateMaterialInput) (*Material, error)
	IncrementDownloads(ctx context.Context, id int64) error

	// HasUploaded reports whether the student has ever uploaded, which
	// gates downloads.
	HasUploaded(ctx context.Context, studentID int64) (bool, error)
	RecordUpload(ctx context.Context, studentID int64) error
}
