package domain

import "time"

// Sort columns accepted by the feed query. Anything else falls back to
// created_at — identifiers are never interpolated into SQL unvalidated.
var feedSortColumns = map[string]bool{
	"created_at": true,
	"likes":      true,
	"views":      true,
	"title":      true,
	"category":   true,
}

const (
	DefaultFeedSort  = "created_at"
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

// Author holds the denormalized display fields attached to posts,
// comments and conversations. A deleted account degrades to "Unknown".
type Author struct {
	ID        int64   `json:"id,omitempty"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Avatar    *string `json:"avatar"`
}

// ModuleRef is the scope a post belongs to. Nil means general content.
type ModuleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Post is a discussion entry. ModuleID is nullable: a post belongs to at
// most one module, or to the general feed.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	Likes     int        `json:"likes"`
	Views     int        `json:"views"`
	StudentID int64      `json:"student_id"`
	Module    *ModuleRef `json:"module"`
	Author    Author     `json:"author"`
}

// Comment belongs to exactly one post, ordered by creation time ascending.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Commenter Author    `json:"commenter"`
}

// TrendingPost is the shape broadcast on trending_update.
type TrendingPost struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Views  int    `json:"views"`
	Likes  int    `json:"likes"`
	Author Author `json:"author"`
}

// TagCount is a category with its post count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// BoardStats are the aggregate discussion counters.
type BoardStats struct {
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Views    int `json:"views"`
	Likes    int `json:"likes"`
}

// PostFilter holds the feed query parameters after normalization.
type PostFilter struct {
	Category       string
	Search         string
	Sort           string
	Page           int
	Limit          int
	IncludeGeneral bool
}

// Normalize clamps pagination and fails the sort column closed to the
// default. Page is 1-indexed with floor 1; limit is clamped to [1,100].
func (f *PostFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultFeedLimit
	}
	if f.Limit > MaxFeedLimit {
		f.Limit = MaxFeedLimit
	}
	if !feedSortColumns[f.Sort] {
		f.Sort = DefaultFeedSort
	}
}

// Offset returns the row offset for the normalized page/limit pair.
func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CreatePostInput is the write-side DTO for a new post.
type CreatePostInput struct {
	Title     string
	Content   string
	Category  string
	StudentID int64
	ModuleID  *int64
}
