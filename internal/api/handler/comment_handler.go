package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/ports"
)

// CommentHandler exposes pitches, replies and withdrawal over HTTP.
type CommentHandler struct {
	service ports.EngagementService
}

func NewCommentHandler(service ports.EngagementService) *CommentHandler {
	return &CommentHandler{service: service}
}

type submitCommentRequest struct {
	Content  string   `json:"content" validate:"required"`
	ParentID string   `json:"parent_id"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Images   []string `json:"images"`
}

type editCommentRequest struct {
	Content string   `json:"content" validate:"required"`
	Price   *float64 `json:"price" validate:"omitempty,gt=0"`
}

// Submit handles POST /v1/posts/:id/comments.
func (h *CommentHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Submit(c.Request().Context(), actor, ports.SubmitCommentInput{
		PostID:   c.Param("id"),
		Content:  req.Content,
		ParentID: req.ParentID,
		Price:    req.Price,
		Images:   req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListByPost handles GET /v1/posts/:id/comments.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	comments, err := h.service.ListByPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Edit handles PUT /v1/comments/:id.
func (h *CommentHandler) Edit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req editCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Edit(c.Request().Context(), actor, ports.EditCommentInput{
		CommentID: c.Param("id"),
		Content:   req.Content,
		Price:     req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Withdraw handles POST /v1/comments/:id/withdraw.
func (h *CommentHandler) Withdraw(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Withdraw(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}
