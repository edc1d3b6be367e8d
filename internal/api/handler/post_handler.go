package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// PostHandler exposes the post lifecycle over HTTP.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	FeedType    string `json:"feed_type" validate:"required,oneof=design booking"`
}

type acceptPitchRequest struct {
	CommentID string `json:"comment_id" validate:"required"`
}

type scheduleRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Phone         string    `json:"phone" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
}

type scheduleResponse struct {
	Post      *domain.Post `json:"post"`
	ClientICS string       `json:"client_ics,omitempty"`
	ShopICS   string       `json:"shop_ics,omitempty"`
}

// Create handles POST /v1/posts.
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), actor, ports.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		FeedType:    req.FeedType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Get handles GET /v1/posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Feed handles GET /v1/feeds/:feed_type.
func (h *PostHandler) Feed(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	posts, err := h.service.Feed(c.Request().Context(), actor, c.Param("feed_type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// ShopBookings handles GET /v1/shops/bookings.
func (h *PostHandler) ShopBookings(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	posts, err := h.service.ShopBookings(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// AcceptPitch handles POST /v1/posts/:id/accept-pitch.
func (h *PostHandler) AcceptPitch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req acceptPitchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.AcceptPitch(c.Request().Context(), actor, c.Param("id"), req.CommentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Schedule handles POST /v1/posts/:id/schedule.
func (h *PostHandler) Schedule(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Schedule(c.Request().Context(), actor, c.Param("id"), ports.ScheduleInput{
		ScheduledDate: req.ScheduledDate,
		ContactInfo:   domain.ContactInfo{Phone: req.Phone, Email: req.Email},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheduleResponse{
		Post:      result.Post,
		ClientICS: result.ClientICS,
		ShopICS:   result.ShopICS,
	})
}

// Complete handles POST /v1/posts/:id/complete.
func (h *PostHandler) Complete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	post, err := h.service.Complete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Cancel handles POST /v1/posts/:id/cancel.
func (h *PostHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	post, err := h.service.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// EventICS handles GET /v1/posts/:id/event.ics and streams the stored
// calendar blob for the calling party.
func (h *PostHandler) EventICS(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	ics, err := h.service.EventICS(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="appointment.ics"`)
	return c.Blob(http.StatusOK, "text/calendar", []byte(ics))
}

// Delete handles DELETE /v1/posts/:id. Admin only.
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
