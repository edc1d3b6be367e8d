package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and performs a fast-fail check before any service call: a non-empty user id
// and role prove the middleware ran and the token carried an identity.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	isAdmin, _ := c.Get("is_admin").(bool)
	isPaid, _ := c.Get("is_paid").(bool)

	return ports.Actor{
		ID:      userID,
		Role:    domain.Role(role),
		IsAdmin: isAdmin,
		IsPaid:  isPaid,
	}, nil
}
