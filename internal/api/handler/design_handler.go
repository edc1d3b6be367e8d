package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/ports"
)

// DesignHandler exposes the design-commission workflow over HTTP.
type DesignHandler struct {
	service ports.DesignService
}

func NewDesignHandler(service ports.DesignService) *DesignHandler {
	return &DesignHandler{service: service}
}

type advanceStageRequest struct {
	Stage  string   `json:"stage" validate:"required"`
	Images []string `json:"images"`
}

type purchaseRequest struct {
	CardToken string `json:"card_token" validate:"required"`
}

// Accept handles POST /v1/designs/accept/:comment_id.
func (h *DesignHandler) Accept(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	design, err := h.service.Accept(c.Request().Context(), actor, c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, design)
}

// AdvanceStage handles PUT /v1/designs/:id/stage.
func (h *DesignHandler) AdvanceStage(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req advanceStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	design, err := h.service.AdvanceStage(c.Request().Context(), actor, ports.AdvanceStageInput{
		DesignID: c.Param("id"),
		Stage:    req.Stage,
		Images:   req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, design)
}

// Purchase handles POST /v1/designs/:id/purchase.
func (h *DesignHandler) Purchase(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	design, err := h.service.Purchase(c.Request().Context(), actor, c.Param("id"), req.CardToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, design)
}

// ListPending handles GET /v1/designs/pending.
func (h *DesignHandler) ListPending(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	designs, err := h.service.ListPending(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, designs)
}

// ListPurchased handles GET /v1/designs/purchased.
func (h *DesignHandler) ListPurchased(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	designs, err := h.service.ListPurchased(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, designs)
}

// ListSold handles GET /v1/designs/sold.
func (h *DesignHandler) ListSold(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	designs, err := h.service.ListSold(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, designs)
}
