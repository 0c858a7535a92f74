package application

import (
	"context"
	"fmt"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/messages"
	"github.com/rs/zerolog/log"
)

const trendingSize = 5

// Leaderboard tracks post engagement scores (views + likes) for the
// trending feed. Implementation lives in infrastructure/redisrank.
type Leaderboard interface {
	// Bump adjusts a post's score by delta.
	Bump(ctx context.Context, postID int64, delta int) error
	// Top returns the highest-scored post ids, best first.
	Top(ctx context.Context, n int) ([]int64, error)
}

// DiscussionService holds the feed and post use-cases.
type DiscussionService struct {
	repo     domain.DiscussionRepository
	students domain.StudentRepository
	notifier *Notifier
	gate     *ContentGate
	board    Leaderboard
	hub      Broadcaster
}

// NewDiscussionService wires the discussion use-cases. board may be nil
// when no redis is configured; trending then falls back to the store.
func NewDiscussionService(
	repo domain.DiscussionRepository,
	students domain.StudentRepository,
	notifier *Notifier,
	gate *ContentGate,
	board Leaderboard,
	hub Broadcaster,
) *DiscussionService {
	return &DiscussionService{
		repo:     repo,
		students: students,
		notifier: notifier,
		gate:     gate,
		board:    board,
		hub:      hub,
	}
}

// VisibleScopes returns the set of module ids the viewer may see: the
// union of subscription and enrollment grants. Empty is a valid result
// and means no scoped content, independent of the general-feed flag.
func (s *DiscussionService) VisibleScopes(ctx context.Context, studentID int64) ([]int64, error) {
	ids, err := s.repo.VisibleModuleIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve visible scopes: %w", err)
	}
	return ids, nil
}

// Feed runs the visibility-scoped feed query for the viewer.
func (s *DiscussionService) Feed(ctx context.Context, studentID int64, f domain.PostFilter) ([]domain.Post, error) {
	f.Normalize()

	scopes, err := s.VisibleScopes(ctx, studentID)
	if err != nil {
		return nil, err
	}

	// No grants and no general content: intentionally empty, not an error.
	if len(scopes) == 0 && !f.IncludeGeneral {
		return []domain.Post{}, nil
	}

	posts, err := s.repo.ListPosts(ctx, scopes, f)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost fetches one post with its comments and bumps the view counter.
// The increment is once per fetch; a failed bump is logged, not fatal.
func (s *DiscussionService) GetPost(ctx context.Context, id int64) (*domain.Post, []domain.Comment, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("view counter increment failed")
	} else {
		post.Views++
		s.bumpScore(ctx, id, 1)
	}

	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return post, comments, nil
}

// CreatePost moderates, persists and announces a new post. A rejected
// verdict is returned with a nil post and a nil error.
func (s *DiscussionService) CreatePost(ctx context.Context, in domain.CreatePostInput) (*domain.Post, *Verdict, error) {
	if in.Title == "" || in.Content == "" || in.StudentID == 0 {
		return nil, nil, fmt.Errorf("%w: title, content and student_id are required", domain.ErrValidation)
	}
	if in.Category == "" {
		in.Category = "General"
	}

	verdict := s.gate.Check(ctx, in.Content)
	if !verdict.Allowed {
		return nil, &verdict, nil
	}

	post, err := s.repo.CreatePost(ctx, in)
	if err != nil {
		return nil, nil, fmt.Errorf("create post: %w", err)
	}

	author, _ := s.students.DisplayAuthor(ctx, in.StudentID)
	s.notifier.Notify(ctx, domain.CreateNotificationInput{
		Type:    domain.TypeDiscussion,
		RefID:   post.ID,
		Message: messages.NewPost(author.FirstName, author.LastName, post.Title),
	})

	return post, &verdict, nil
}

// AddComment appends a comment to a post and announces it.
func (s *DiscussionService) AddComment(ctx context.Context, postID, studentID int64, content string) (*domain.Comment, error) {
	if content == "" || studentID == 0 {
		return nil, fmt.Errorf("%w: content and student_id are required", domain.ErrValidation)
	}

	comment, err := s.repo.AddComment(ctx, postID, studentID, content)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	commenter, _ := s.students.DisplayAuthor(ctx, studentID)
	s.notifier.Notify(ctx, domain.CreateNotificationInput{
		Type:    domain.TypeComment,
		RefID:   postID,
		Message: messages.NewComment(commenter.FirstName, commenter.LastName),
	})

	return comment, nil
}

// ToggleLike flips the (post, student) like membership. A new like is
// announced; an unlike never is.
func (s *DiscussionService) ToggleLike(ctx context.Context, postID, studentID int64) (bool, error) {
	if studentID == 0 {
		return false, fmt.Errorf("%w: student_id is required", domain.ErrValidation)
	}

	liked, err := s.repo.ToggleLike(ctx, postID, studentID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}

	if !liked {
		s.bumpScore(ctx, postID, -1)
		return false, nil
	}

	s.bumpScore(ctx, postID, 1)
	liker, _ := s.students.DisplayAuthor(ctx, studentID)
	s.notifier.Notify(ctx, domain.CreateNotificationInput{
		Type:    domain.TypeLike,
		RefID:   postID,
		Message: messages.NewLike(liker.FirstName, liker.LastName),
	})

	return true, nil
}

// Trending returns the top posts by engagement and broadcasts the
// snapshot on the global channel. The leaderboard ranks; the store
// ranks directly when no leaderboard is wired or it has no data yet.
func (s *DiscussionService) Trending(ctx context.Context) ([]domain.TrendingPost, error) {
	posts, err := s.rankTrending(ctx)
	if err != nil {
		return nil, err
	}

	go s.hub.BroadcastTrending(posts)
	return posts, nil
}

func (s *DiscussionService) rankTrending(ctx context.Context) ([]domain.TrendingPost, error) {
	if s.board != nil {
		ids, err := s.board.Top(ctx, trendingSize)
		if err != nil {
			log.Warn().Err(err).Msg("leaderboard unavailable, ranking from store")
		} else if len(ids) > 0 {
			return s.repo.TrendingByIDs(ctx, ids)
		}
	}
	return s.repo.TopPosts(ctx, trendingSize)
}

func (s *DiscussionService) bumpScore(ctx context.Context, postID int64, delta int) {
	if s.board == nil {
		return
	}
	if err := s.board.Bump(ctx, postID, delta); err != nil {
		log.Warn().Err(err).Int64("post_id", postID).Msg("leaderboard bump failed")
	}
}

// Tags returns category usage counts.
func (s *DiscussionService) Tags(ctx context.Context) ([]domain.TagCount, error) {
	return s.repo.Tags(ctx)
}

// Stats returns the aggregate board counters.
func (s *DiscussionService) Stats(ctx context.Context) (*domain.BoardStats, error) {
	return s.repo.Stats(ctx)
}
