package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peerconnect/backend/internal/domain"
)

// ListModules GET /api/modules
func (h *Handler) ListModules(c echo.Context) error {
	modules, err := h.subs.Modules(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "modules": modules})
}

// Subscribe POST /api/subscriptions
func (h *Handler) Subscribe(c echo.Context) error {
	var body struct {
		ModuleID int64 `json:"module_id"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	sub, inserted, err := h.subs.Subscribe(c.Request().Context(), mustStudent(c), body.ModuleID)
	if err != nil {
		return h.fail(c, err)
	}
	if !inserted {
		return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "Already subscribed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "subscription": sub})
}

// ListSubscriptions GET /api/subscriptions/:studentId
func (h *Handler) ListSubscriptions(c echo.Context) error {
	studentID, err := parseIDParam(c, "studentId")
	if err != nil {
		return h.fail(c, err)
	}

	subs, err := h.subs.Subscriptions(c.Request().Context(), studentID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "subscriptions": subs})
}

// Unsubscribe DELETE /api/subscriptions/:id
func (h *Handler) Unsubscribe(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.subs.Unsubscribe(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Unsubscribed successfully"})
}
