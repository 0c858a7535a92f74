package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// DiscussionRepo is the PostgreSQL implementation of
// domain.DiscussionRepository.
type DiscussionRepo struct {
	pool *pgxpool.Pool
}

// NewDiscussionRepo creates a postgres DiscussionRepo.
func NewDiscussionRepo(pool *pgxpool.Pool) *DiscussionRepo {
	return &DiscussionRepo{pool: pool}
}

// Allowlisted ORDER BY identifiers. The repo re-validates even though the
// filter normalizes, so an identifier can never reach the engine raw.
var sortColumns = map[string]string{
	"created_at": "d.created_at",
	"likes":      "d.likes",
	"views":      "d.views",
	"title":      "d.title",
	"category":   "d.category",
}

const postColumns = `
	d.id, d.title, d.content, d.category, d.created_at, d.likes, d.views,
	d.student_id, d.module_id,
	s.first_name AS author_first_name,
	s.last_name  AS author_last_name,
	s.avatar     AS author_avatar,
	m.name       AS module_name,
	m.code       AS module_code
`

const postFrom = `
	FROM discussions d
	LEFT JOIN student s ON d.student_id = s.stu_id
	LEFT JOIN modules m ON d.module_id = m.id
`

// VisibleModuleIDs returns the union of subscription and enrollment
// grants. UNION collapses a module granted from both sources.
func (r *DiscussionRepo) VisibleModuleIDs(ctx context.Context, studentID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT module_id FROM student_subscriptions WHERE student_id = $1
		UNION
		SELECT module_id FROM student_modules WHERE student_id = $1
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("visible module ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan module id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListPosts runs the visibility-scoped feed query: module in the viewer
// set, plus general (NULL-module) posts when the filter asks for them.
func (r *DiscussionRepo) ListPosts(ctx context.Context, moduleIDs []int64, f domain.PostFilter) ([]domain.Post, error) {
	query := "SELECT " + postColumns + postFrom

	var conditions []string
	var args []any

	switch {
	case len(moduleIDs) > 0 && f.IncludeGeneral:
		args = append(args, moduleIDs)
		conditions = append(conditions, fmt.Sprintf("(d.module_id IS NULL OR d.module_id = ANY($%d))", len(args)))
	case len(moduleIDs) > 0:
		args = append(args, moduleIDs)
		conditions = append(conditions, fmt.Sprintf("d.module_id = ANY($%d)", len(args)))
	case f.IncludeGeneral:
		conditions = append(conditions, "d.module_id IS NULL")
	default:
		// No grants, no general content: nothing is visible.
		conditions = append(conditions, "1=0")
	}

	if f.Category != "" {
		args = append(args, f.Category)
		conditions = append(conditions, fmt.Sprintf("d.category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(d.title ILIKE $%d OR d.content ILIKE $%d)", len(args), len(args)))
	}

	query += " WHERE " + joinConditions(conditions)

	sortCol, ok := sortColumns[f.Sort]
	if !ok {
		sortCol = sortColumns[domain.DefaultFeedSort]
	}
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d", sortCol, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// GetPost fetches one post with its denormalized display fields.
func (r *DiscussionRepo) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+postColumns+postFrom+" WHERE d.id = $1", id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// IncrementViews bumps the view counter by one per fetch.
func (r *DiscussionRepo) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE discussions SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, creation time ascending.
func (r *DiscussionRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.content, c.created_at,
		       COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM comments c
		LEFT JOIN student s ON c.student_id = s.stu_id
		WHERE c.discussion_id = $1
		ORDER BY c.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt,
			&c.Commenter.FirstName, &c.Commenter.LastName, &c.Commenter.Avatar); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreatePost inserts a post and returns it fully shaped.
func (r *DiscussionRepo) CreatePost(ctx context.Context, in domain.CreatePostInput) (*domain.Post, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO discussions (title, content, category, student_id, module_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, in.Title, in.Content, in.Category, in.StudentID, in.ModuleID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.GetPost(ctx, id)
}

// AddComment inserts a comment and returns it with commenter details.
func (r *DiscussionRepo) AddComment(ctx context.Context, postID, studentID int64, content string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.pool.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO comments (discussion_id, student_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, content, created_at, student_id
		)
		SELECT ins.id, ins.content, ins.created_at,
		       COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM ins
		LEFT JOIN student s ON ins.student_id = s.stu_id
	`, postID, studentID, content).Scan(&c.ID, &c.Content, &c.CreatedAt,
		&c.Commenter.FirstName, &c.Commenter.LastName, &c.Commenter.Avatar)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

// ToggleLike flips the like membership inside one transaction. The unique
// (discussion_id, student_id) constraint plus INSERT ... ON CONFLICT makes
// the check-then-act linearizable: concurrent callers cannot produce two
// rows for the same pair.
func (r *DiscussionRepo) ToggleLike(ctx context.Context, postID, studentID int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin toggle like: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO discussion_likes (discussion_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (discussion_id, student_id) DO NOTHING
	`, postID, studentID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	liked := tag.RowsAffected() == 1
	if liked {
		_, err = tx.Exec(ctx, `UPDATE discussions SET likes = likes + 1 WHERE id = $1`, postID)
	} else {
		if _, err = tx.Exec(ctx, `
			DELETE FROM discussion_likes WHERE discussion_id = $1 AND student_id = $2
		`, postID, studentID); err == nil {
			_, err = tx.Exec(ctx, `UPDATE discussions SET likes = GREATEST(likes - 1, 0) WHERE id = $1`, postID)
		}
	}
	if err != nil {
		return false, fmt.Errorf("adjust like counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit toggle like: %w", err)
	}
	return liked, nil
}

// TopPosts ranks by views + likes directly in the store.
func (r *DiscussionRepo) TopPosts(ctx context.Context, limit int) ([]domain.TrendingPost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.title, d.views, d.likes,
		       COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM discussions d
		LEFT JOIN student s ON d.student_id = s.stu_id
		ORDER BY (d.views + d.likes) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}
	defer rows.Close()
	return scanTrending(rows, nil)
}

// TrendingByIDs hydrates trending entries in the given rank order.
func (r *DiscussionRepo) TrendingByIDs(ctx context.Context, ids []int64) ([]domain.TrendingPost, error) {
	if len(ids) == 0 {
		return []domain.TrendingPost{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.title, d.views, d.likes,
		       COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM discussions d
		LEFT JOIN student s ON d.student_id = s.stu_id
		WHERE d.id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("trending by ids: %w", err)
	}
	defer rows.Close()
	return scanTrending(rows, ids)
}

// Tags returns the ten most used categories.
func (r *DiscussionRepo) Tags(ctx context.Context) ([]domain.TagCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*)
		FROM discussions
		GROUP BY category
		ORDER BY COUNT(*) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.TagCount{}
	for rows.Next() {
		var t domain.TagCount
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Stats returns the aggregate board counters in one round trip.
func (r *DiscussionRepo) Stats(ctx context.Context) (*domain.BoardStats, error) {
	var s domain.BoardStats
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM discussions),
		       (SELECT COUNT(*) FROM comments),
		       (SELECT COALESCE(SUM(views), 0) FROM discussions),
		       (SELECT COALESCE(SUM(likes), 0) FROM discussions)
	`).Scan(&s.Posts, &s.Comments, &s.Views, &s.Likes)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &s, nil
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanPost(row scannable) (*domain.Post, error) {
	var p domain.Post
	var moduleID *int64
	var firstName, lastName, moduleName, moduleCode *string

	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.CreatedAt,
		&p.Likes, &p.Views, &p.StudentID, &moduleID,
		&firstName, &lastName, &p.Author.Avatar, &moduleName, &moduleCode)
	if err != nil {
		return nil, err
	}

	p.Author.ID = p.StudentID
	p.Author.FirstName = "Unknown"
	if firstName != nil {
		p.Author.FirstName = *firstName
	}
	if lastName != nil {
		p.Author.LastName = *lastName
	}
	if moduleID != nil {
		p.Module = &domain.ModuleRef{ID: *moduleID}
		if moduleName != nil {
			p.Module.Name = *moduleName
		}
		if moduleCode != nil {
			p.Module.Code = *moduleCode
		}
	}
	return &p, nil
}

func scanTrending(rows pgx.Rows, order []int64) ([]domain.TrendingPost, error) {
	byID := make(map[int64]domain.TrendingPost)
	var scanned []domain.TrendingPost
	for rows.Next() {
		var t domain.TrendingPost
		if err := rows.Scan(&t.ID, &t.Title, &t.Views, &t.Likes,
			&t.Author.FirstName, &t.Author.LastName, &t.Author.Avatar); err != nil {
			return nil, fmt.Errorf("scan trending post: %w", err)
		}
		byID[t.ID] = t
		scanned = append(scanned, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if order == nil {
		if scanned == nil {
			scanned = []domain.TrendingPost{}
		}
		return scanned, nil
	}

	ranked := make([]domain.TrendingPost, 0, len(order))
	for _, id := range order {
		if t, ok := byID[id]; ok {
			ranked = append(ranked, t)
		}
	}
	return ranked, nil
}

func joinConditions(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
