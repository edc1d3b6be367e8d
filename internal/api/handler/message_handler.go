package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/ports"
)

// MessageHandler exposes direct messages over HTTP.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// Send handles POST /v1/messages.
func (h *MessageHandler) Send(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.service.Send(c.Request().Context(), actor, req.ReceiverID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// Inbox handles GET /v1/messages/inbox.
func (h *MessageHandler) Inbox(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.Inbox(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// Sent handles GET /v1/messages/sent.
func (h *MessageHandler) Sent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.Sent(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkRead handles POST /v1/messages/:id/read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	msg, err := h.service.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// Contacts handles GET /v1/messages/contacts.
func (h *MessageHandler) Contacts(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	contacts, err := h.service.Contacts(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}
