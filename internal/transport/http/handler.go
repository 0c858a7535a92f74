package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/domain"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	discussions *application.DiscussionService
	messaging   *application.MessagingService
	materials   *application.MaterialService
	subs        *application.SubscriptionService
	notifier    *application.Notifier
	hub         *Hub
}

// NewHandler creates a Handler.
func NewHandler(
	discussions *application.DiscussionService,
	messaging *application.MessagingService,
	materials *application.MaterialService,
	subs *application.SubscriptionService,
	notifier *application.Notifier,
	hub *Hub,
) *Handler {
	return &Handler{
		discussions: discussions,
		messaging:   messaging,
		materials:   materials,
		subs:        subs,
		notifier:    notifier,
		hub:         hub,
	}
}

// --- Discussions ---

// ListPosts GET /api/discussions/posts
func (h *Handler) ListPosts(c echo.Context) error {
	viewer := mustStudent(c)

	f := domain.PostFilter{
		Category:       c.QueryParam("category"),
		Search:         c.QueryParam("search"),
		Sort:           c.QueryParam("sort"),
		Page:           parseIntQuery(c, "page", 1),
		Limit:          parseIntQuery(c, "limit", domain.DefaultFeedLimit),
		IncludeGeneral: c.QueryParam("include_general") != "false",
	}

	posts, err := h.discussions.Feed(c.Request().Context(), viewer, f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "posts": posts})
}

// GetPost GET /api/discussions/posts/:id — view counter bumps per fetch.
func (h *Handler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	post, comments, err := h.discussions.GetPost(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "post": post, "comments": comments})
}

// CreatePost POST /api/discussions/posts
func (h *Handler) CreatePost(c echo.Context) error {
	var body struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
		ModuleID *int64 `json:"module_id"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	post, verdict, err := h.discussions.CreatePost(c.Request().Context(), domain.CreatePostInput{
		Title:     body.Title,
		Content:   body.Content,
		Category:  body.Category,
		StudentID: mustStudent(c),
		ModuleID:  body.ModuleID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	if post == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success":    false,
			"message":    "Post rejected by moderation",
			"reason":     verdict.Reason,
			"categories": verdict.Categories,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "post": post})
}

// AddComment POST /api/discussions/posts/:id/comments
func (h *Handler) AddComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	comment, err := h.discussions.AddComment(c.Request().Context(), id, mustStudent(c), body.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "comment": comment})
}

// ToggleLike POST /api/discussions/posts/:id/like
func (h *Handler) ToggleLike(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	liked, err := h.discussions.ToggleLike(c.Request().Context(), id, mustStudent(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "liked": liked})
}

// Trending GET /api/discussions/trending
func (h *Handler) Trending(c echo.Context) error {
	trending, err := h.discussions.Trending(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "trending": trending})
}

// Tags GET /api/discussions/tags
func (h *Handler) Tags(c echo.Context) error {
	tags, err := h.discussions.Tags(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "tags": tags})
}

// Stats GET /api/discussions/stats
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.discussions.Stats(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// --- Helpers ---

// fail converts errors to the uniform failure envelope. Storage detail is
// logged, never exposed.
func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusBadRequest, failEnvelope(err))
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, failEnvelope(err))
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, failEnvelope(err))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Server error",
		})
	}
}

func failEnvelope(err error) map[string]any {
	return map[string]any{"success": false, "message": err.Error()}
}

// mustStudent returns the authenticated student id set by the JWT
// middleware.
func mustStudent(c echo.Context) int64 {
	id, _ := c.Get("studentID").(int64)
	return id
}

func parseIntQuery(c echo.Context, key string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(key))
	if err != nil {
		return def
	}
	return v
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}
