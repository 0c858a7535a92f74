package messages

// ─── Discussions ─────────────────────────────────────────────────────────────

const (
	NewPostBody    = "📝 %s %s created a new post: %s"
	NewCommentBody = "💬 %s %s commented on a post"
	NewLikeBody    = "👍 %s liked your post"
)

// ─── Study materials ─────────────────────────────────────────────────────────

const (
	NewMaterialBody = "📘 New study material uploaded: %s"
)

// ─── Enrollment ──────────────────────────────────────────────────────────────

const (
	EnrollmentGrantedBody = "🎓 You have been enrolled in %s"
)

// AnonymousActor is the display name used when the acting student cannot
// be resolved.
const AnonymousActor = "Someone"
