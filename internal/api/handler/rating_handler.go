package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/ports"
)

// RatingHandler exposes ratings and badges over HTTP.
type RatingHandler struct {
	service ports.ReputationService
}

func NewRatingHandler(service ports.ReputationService) *RatingHandler {
	return &RatingHandler{service: service}
}

type rateRequest struct {
	PostID  string `json:"post_id" validate:"required"`
	RateeID string `json:"ratee_id" validate:"required"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Rate handles POST /v1/ratings.
func (h *RatingHandler) Rate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rating, err := h.service.Rate(c.Request().Context(), actor, ports.RateInput{
		PostID:  req.PostID,
		RateeID: req.RateeID,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rating)
}

// ListByPost handles GET /v1/ratings/post/:post_id.
func (h *RatingHandler) ListByPost(c echo.Context) error {
	ratings, err := h.service.RatingsForPost(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}

// ListByUser handles GET /v1/ratings/user/:user_id.
func (h *RatingHandler) ListByUser(c echo.Context) error {
	ratings, err := h.service.RatingsForUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}

// Badges handles GET /v1/badges.
func (h *RatingHandler) Badges(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	badges, err := h.service.Badges(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, badges)
}
