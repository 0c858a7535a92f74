package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/domain"
)

func newDiscussionService(repo *fakeDiscussionRepo, hub *fakeHub, board application.Leaderboard) (*application.DiscussionService, *fakeNotificationRepo) {
	notifRepo := &fakeNotificationRepo{}
	notifier := application.NewNotifier(notifRepo, hub)
	gate := application.NewContentGate(nil)
	return application.NewDiscussionService(repo, fakeStudentRepo{}, notifier, gate, board, hub), notifRepo
}

func TestFeed_EmptyScopesWithoutGeneralShortCircuits(t *testing.T) {
	repo := &fakeDiscussionRepo{
		visibleModuleIDs: func(int64) ([]int64, error) { return nil, nil },
		listPosts: func([]int64, domain.PostFilter) ([]domain.Post, error) {
			t.Fatal("feed query must not run without visible scopes")
			return nil, nil
		},
	}
	svc, _ := newDiscussionService(repo, newFakeHub(), nil)

	posts, err := svc.Feed(context.Background(), 1, domain.PostFilter{IncludeGeneral: false})
	if err != nil {
		t.Fatal(err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", posts)
	}
}

func TestFeed_EmptyScopesWithGeneralStillQueries(t *testing.T) {
	queried := false
	repo := &fakeDiscussionRepo{
		visibleModuleIDs: func(int64) ([]int64, error) { return nil, nil },
		listPosts: func(moduleIDs []int64, f domain.PostFilter) ([]domain.Post, error) {
			queried = true
			if len(moduleIDs) != 0 {
				t.Fatalf("unexpected scopes %v", moduleIDs)
			}
			return []domain.Post{{ID: 1}}, nil
		},
	}
	svc, _ := newDiscussionService(repo, newFakeHub(), nil)

	posts, err := svc.Feed(context.Background(), 1, domain.PostFilter{IncludeGeneral: true})
	if err != nil {
		t.Fatal(err)
	}
	if !queried || len(posts) != 1 {
		t.Fatal("general-only feed was not queried")
	}
}

func TestFeed_NormalizesBeforeQuerying(t *testing.T) {
	repo := &fakeDiscussionRepo{
		visibleModuleIDs: func(int64) ([]int64, error) { return []int64{3}, nil },
		listPosts: func(_ []int64, f domain.PostFilter) ([]domain.Post, error) {
			if f.Sort != domain.DefaultFeedSort || f.Page != 1 || f.Limit != domain.MaxFeedLimit {
				t.Fatalf("filter reached the store unnormalized: %+v", f)
			}
			return nil, nil
		},
	}
	svc, _ := newDiscussionService(repo, newFakeHub(), nil)

	_, err := svc.Feed(context.Background(), 1, domain.PostFilter{Sort: "evil column", Page: -1, Limit: 9999})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreatePost_RejectedByModerationSkipsStore(t *testing.T) {
	repo := &fakeDiscussionRepo{
		createPost: func(domain.CreatePostInput) (*domain.Post, error) {
			t.Fatal("rejected post must never reach the store")
			return nil, nil
		},
	}
	hub := newFakeHub()
	svc, notifRepo := newDiscussionService(repo, hub, nil)

	post, verdict, err := svc.CreatePost(context.Background(), domain.CreatePostInput{
		Title:     "Weekend plans",
		Content:   "pizza and gaming all night",
		StudentID: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if post != nil {
		t.Fatal("expected nil post for rejected content")
	}
	if verdict == nil || verdict.Allowed {
		t.Fatalf("expected rejecting verdict, got %+v", verdict)
	}
	if notifRepo.count.Load() != 0 {
		t.Fatal("rejected post must not notify")
	}
}

func TestCreatePost_PersistsAndNotifies(t *testing.T) {
	repo := &fakeDiscussionRepo{
		createPost: func(in domain.CreatePostInput) (*domain.Post, error) {
			return &domain.Post{ID: 10, Title: in.Title, Category: in.Category}, nil
		},
	}
	hub := newFakeHub()
	svc, _ := newDiscussionService(repo, hub, nil)

	post, verdict, err := svc.CreatePost(context.Background(), domain.CreatePostInput{
		Title:     "Exam prep thread",
		Content:   "collecting past papers here",
		StudentID: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if post == nil || !verdict.Allowed {
		t.Fatal("clean post should persist")
	}
	if post.Category != "General" {
		t.Fatalf("empty category should default to General, got %q", post.Category)
	}

	n := waitNotification(t, hub)
	if n.Type != domain.TypeDiscussion || n.RefID != 10 {
		t.Fatalf("wrong announcement: %+v", n)
	}
}

func TestToggleLike_NotifiesOnlyOnLike(t *testing.T) {
	liked := true
	repo := &fakeDiscussionRepo{
		toggleLike: func(int64, int64) (bool, error) { return liked, nil },
	}
	hub := newFakeHub()
	svc, notifRepo := newDiscussionService(repo, hub, nil)

	got, err := svc.ToggleLike(context.Background(), 5, 1)
	if err != nil || !got {
		t.Fatalf("like failed: %v", err)
	}
	if n := waitNotification(t, hub); n.Type != domain.TypeLike {
		t.Fatalf("wrong notification type %q", n.Type)
	}

	liked = false
	got, err = svc.ToggleLike(context.Background(), 5, 1)
	if err != nil || got {
		t.Fatalf("unlike failed: %v", err)
	}
	assertNoBroadcast(t, hub)
	if notifRepo.count.Load() != 1 {
		t.Fatalf("unlike must not notify, insert count %d", notifRepo.count.Load())
	}
}

func TestGetPost_BumpsViewsOncePerFetch(t *testing.T) {
	bumps := 0
	repo := &fakeDiscussionRepo{
		getPost:        func(id int64) (*domain.Post, error) { return &domain.Post{ID: id, Views: 3}, nil },
		incrementViews: func(int64) error { bumps++; return nil },
	}
	svc, _ := newDiscussionService(repo, newFakeHub(), nil)

	post, _, err := svc.GetPost(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if bumps != 1 || post.Views != 4 {
		t.Fatalf("bumps=%d views=%d, want 1 and 4", bumps, post.Views)
	}
}

func TestTrending_LeaderboardRanksStoreHydrates(t *testing.T) {
	board := &fakeLeaderboard{top: func(n int) ([]int64, error) { return []int64{9, 4}, nil }}
	repo := &fakeDiscussionRepo{
		trendingByIDs: func(ids []int64) ([]domain.TrendingPost, error) {
			out := make([]domain.TrendingPost, len(ids))
			for i, id := range ids {
				out[i] = domain.TrendingPost{ID: id}
			}
			return out, nil
		},
		topPosts: func(int) ([]domain.TrendingPost, error) {
			t.Fatal("store ranking must not run when the leaderboard has data")
			return nil, nil
		},
	}
	hub := newFakeHub()
	svc, _ := newDiscussionService(repo, hub, board)

	posts, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 || posts[0].ID != 9 || posts[1].ID != 4 {
		t.Fatalf("rank order lost: %+v", posts)
	}

	select {
	case snapshot := <-hub.trending:
		if len(snapshot) != 2 {
			t.Fatalf("broadcast snapshot %+v", snapshot)
		}
	case <-time.After(time.Second):
		t.Fatal("trending snapshot was not broadcast")
	}
}

func TestTrending_FallsBackToStoreWhenBoardEmpty(t *testing.T) {
	board := &fakeLeaderboard{top: func(int) ([]int64, error) { return nil, nil }}
	repo := &fakeDiscussionRepo{
		topPosts: func(limit int) ([]domain.TrendingPost, error) {
			return []domain.TrendingPost{{ID: 1}}, nil
		},
	}
	svc, _ := newDiscussionService(repo, newFakeHub(), board)

	posts, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %+v, want the store ranking", posts)
	}
}
