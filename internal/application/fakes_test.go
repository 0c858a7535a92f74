package application_test

import (
	"context"
	"sync/atomic"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/domain"
)

// Function-field fakes; nil fields mean "not expected to be called" and
// return zero values.

type fakeDiscussionRepo struct {
	visibleModuleIDs func(studentID int64) ([]int64, error)
	listPosts        func(moduleIDs []int64, f domain.PostFilter) ([]domain.Post, error)
	getPost          func(id int64) (*domain.Post, error)
	incrementViews   func(id int64) error
	listComments     func(postID int64) ([]domain.Comment, error)
	createPost       func(in domain.CreatePostInput) (*domain.Post, error)
	addComment       func(postID, studentID int64, content string) (*domain.Comment, error)
	toggleLike       func(postID, studentID int64) (bool, error)
	topPosts         func(limit int) ([]domain.TrendingPost, error)
	trendingByIDs    func(ids []int64) ([]domain.TrendingPost, error)
}

func (r *fakeDiscussionRepo) VisibleModuleIDs(_ context.Context, studentID int64) ([]int64, error) {
	if r.visibleModuleIDs == nil {
		return nil, nil
	}
	return r.visibleModuleIDs(studentID)
}

func (r *fakeDiscussionRepo) ListPosts(_ context.Context, moduleIDs []int64, f domain.PostFilter) ([]domain.Post, error) {
	if r.listPosts == nil {
		return nil, nil
	}
	return r.listPosts(moduleIDs, f)
}

func (r *fakeDiscussionRepo) GetPost(_ context.Context, id int64) (*domain.Post, error) {
	if r.getPost == nil {
		return nil, domain.ErrNotFound
	}
	return r.getPost(id)
}

func (r *fakeDiscussionRepo) IncrementViews(_ context.Context, id int64) error {
	if r.incrementViews == nil {
		return nil
	}
	return r.incrementViews(id)
}

func (r *fakeDiscussionRepo) ListComments(_ context.Context, postID int64) ([]domain.Comment, error) {
	if r.listComments == nil {
		return nil, nil
	}
	return r.listComments(postID)
}

func (r *fakeDiscussionRepo) CreatePost(_ context.Context, in domain.CreatePostInput) (*domain.Post, error) {
	if r.createPost == nil {
		return nil, domain.ErrNotFound
	}
	return r.createPost(in)
}

func (r *fakeDiscussionRepo) AddComment(_ context.Context, postID, studentID int64, content string) (*domain.Comment, error) {
	if r.addComment == nil {
		return nil, domain.ErrNotFound
	}
	return r.addComment(postID, studentID, content)
}

func (r *fakeDiscussionRepo) ToggleLike(_ context.Context, postID, studentID int64) (bool, error) {
	if r.toggleLike == nil {
		return false, nil
	}
	return r.toggleLike(postID, studentID)
}

func (r *fakeDiscussionRepo) TopPosts(_ context.Context, limit int) ([]domain.TrendingPost, error) {
	if r.topPosts == nil {
		return nil, nil
	}
	return r.topPosts(limit)
}

func (r *fakeDiscussionRepo) TrendingByIDs(_ context.Context, ids []int64) ([]domain.TrendingPost, error) {
	if r.trendingByIDs == nil {
		return nil, nil
	}
	return r.trendingByIDs(ids)
}

func (r *fakeDiscussionRepo) Tags(_ context.Context) ([]domain.TagCount, error) { return nil, nil }

func (r *fakeDiscussionRepo) Stats(_ context.Context) (*domain.BoardStats, error) {
	return &domain.BoardStats{}, nil
}

type fakeStudentRepo struct{}

func (fakeStudentRepo) DisplayAuthor(_ context.Context, studentID int64) (domain.Author, error) {
	return domain.Author{ID: studentID, FirstName: "Ada", LastName: "Lovelace"}, nil
}

type fakeNotificationRepo struct {
	create func(in domain.CreateNotificationInput) (*domain.Notification, error)
	count  atomic.Int64
}

func (r *fakeNotificationRepo) Create(_ context.Context, in domain.CreateNotificationInput) (*domain.Notification, error) {
	r.count.Add(1)
	if r.create == nil {
		return &domain.Notification{ID: r.count.Load(), Type: in.Type, RefID: in.RefID, Message: in.Message}, nil
	}
	return r.create(in)
}

func (r *fakeNotificationRepo) List(_ context.Context) ([]domain.NotificationWithActor, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) SetRead(_ context.Context, id int64, read bool) (*domain.Notification, error) {
	return &domain.Notification{ID: id, Read: read}, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context) (int64, error) { return 0, nil }

func (r *fakeNotificationRepo) CountUnread(_ context.Context) (int64, error) { return 0, nil }

// fakeHub records broadcasts on channels so tests can wait for the
// asynchronous delivery without sleeping.
type fakeHub struct {
	notifications chan *domain.Notification
	trending      chan []domain.TrendingPost
	messages      chan *domain.Message
}

func newFakeHub() *fakeHub {
	return &fakeHub{
		notifications: make(chan *domain.Notification, 8),
		trending:      make(chan []domain.TrendingPost, 8),
		messages:      make(chan *domain.Message, 8),
	}
}

func (h *fakeHub) BroadcastNotification(n *domain.Notification)  { h.notifications <- n }
func (h *fakeHub) BroadcastTrending(posts []domain.TrendingPost) { h.trending <- posts }
func (h *fakeHub) SendToConversation(_ int64, m *domain.Message) { h.messages <- m }

type fakeClassifier struct {
	classify func(content string) (application.Verdict, error)
}

func (c fakeClassifier) Classify(_ context.Context, content string) (application.Verdict, error) {
	return c.classify(content)
}

type fakeLeaderboard struct {
	bump func(postID int64, delta int) error
	top  func(n int) ([]int64, error)
}

func (b *fakeLeaderboard) Bump(_ context.Context, postID int64, delta int) error {
	if b.bump == nil {
		return nil
	}
	return b.bump(postID, delta)
}

func (b *fakeLeaderboard) Top(_ context.Context, n int) ([]int64, error) {
	if b.top == nil {
		return nil, nil
	}
	return b.top(n)
}
