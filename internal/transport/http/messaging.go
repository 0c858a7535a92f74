package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peerconnect/backend/internal/domain"
)

// StartConversation POST /api/messages/start
func (h *Handler) StartConversation(c echo.Context) error {
	var body struct {
		RecipientID int64 `json:"recipientId"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	id, err := h.messaging.Start(c.Request().Context(), mustStudent(c), body.RecipientID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "conversationId": id})
}

// MyConversations GET /api/messages/my
func (h *Handler) MyConversations(c echo.Context) error {
	convos, err := h.messaging.MyConversations(c.Request().Context(), mustStudent(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "conversations": convos})
}

// SendMessage POST /api/messages/:conversationId/message
func (h *Handler) SendMessage(c echo.Context) error {
	conversationID, err := parseIDParam(c, "conversationId")
	if err != nil {
		return h.fail(c, err)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	msg, err := h.messaging.Send(c.Request().Context(), conversationID, mustStudent(c), body.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg})
}

// ListMessages GET /api/messages/:conversationId/messages
func (h *Handler) ListMessages(c echo.Context) error {
	conversationID, err := parseIDParam(c, "conversationId")
	if err != nil {
		return h.fail(c, err)
	}

	msgs, err := h.messaging.History(c.Request().Context(), conversationID, mustStudent(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "messages": msgs})
}
