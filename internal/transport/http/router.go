package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/peerconnect/backend/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Health (no auth required)
	e.GET("/health", h.Health)

	// API — requires authentication
	api := e.Group("/api")
	api.Use(mw.JWTAuth(jwtSecret))

	// Discussion board
	api.GET("/discussions/posts", h.ListPosts)
	api.POST("/discussions/posts", h.CreatePost)
	api.GET("/discussions/posts/:id", h.GetPost)
	api.POST("/discussions/posts/:id/comments", h.AddComment)
	api.POST("/discussions/posts/:id/like", h.ToggleLike)
	api.GET("/discussions/trending", h.Trending)
	api.GET("/discussions/tags", h.Tags)
	api.GET("/discussions/stats", h.Stats)

	// Modules & subscriptions
	api.GET("/modules", h.ListModules)
	api.POST("/subscriptions", h.Subscribe)
	api.GET("/subscriptions/:studentId", h.ListSubscriptions)
	api.DELETE("/subscriptions/:id", h.Unsubscribe)

	// Direct messages
	api.POST("/messages/start", h.StartConversation)
	api.GET("/messages/my", h.MyConversations)
	api.POST("/messages/:conversationId/message", h.SendMessage)
	api.GET("/messages/:conversationId/messages", h.ListMessages)

	// Notifications
	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/unread-count", h.UnreadCount)
	api.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
	api.PUT("/notifications/:id/read", h.MarkNotificationRead)
	api.PUT("/notifications/:id/unread", h.MarkNotificationUnread)

	// Study materials
	api.GET("/materials", h.ListMaterials)
	api.POST("/materials", h.UploadMaterial)
	api.GET("/materials/:id/download", h.DownloadMaterial)

	// SSE endpoint
	api.GET("/events/stream", h.Stream)

	return e
}
