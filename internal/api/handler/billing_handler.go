package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/ports"
)

// BillingHandler exposes subscription billing over HTTP.
type BillingHandler struct {
	service ports.BillingService
}

func NewBillingHandler(service ports.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

type subscribeRequest struct {
	CardToken string `json:"card_token" validate:"required"`
}

// Subscribe handles POST /v1/billing/subscribe.
func (h *BillingHandler) Subscribe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Subscribe(c.Request().Context(), actor, req.CardToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}
