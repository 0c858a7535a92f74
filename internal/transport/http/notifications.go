package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListNotifications GET /api/notifications
func (h *Handler) ListNotifications(c echo.Context) error {
	notifications, err := h.notifier.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "notifications": notifications})
}

// MarkNotificationRead PUT /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	return h.setNotificationRead(c, true)
}

// MarkNotificationUnread PUT /api/notifications/:id/unread
func (h *Handler) MarkNotificationUnread(c echo.Context) error {
	return h.setNotificationRead(c, false)
}

func (h *Handler) setNotificationRead(c echo.Context, read bool) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	n, err := h.notifier.SetRead(c.Request().Context(), id, read)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "notification": n})
}

// MarkAllNotificationsRead PUT /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	count, err := h.notifier.MarkAllRead(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": count})
}

// UnreadCount GET /api/notifications/unread-count
func (h *Handler) UnreadCount(c echo.Context) error {
	count, err := h.notifier.CountUnread(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": count})
}
