package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// UserHandler exposes permission administration and the caller's own
// account surface.
type UserHandler struct {
	perms    ports.PermissionService
	accounts ports.AuthService
}

func NewUserHandler(perms ports.PermissionService, accounts ports.AuthService) *UserHandler {
	return &UserHandler{perms: perms, accounts: accounts}
}

type grantRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required"`
}

type updateTimezoneRequest struct {
	Timezone string `json:"timezone" validate:"required"`
}

// Me handles GET /v1/me/permissions, returning the caller's own permission
// set so the UI can hide what the gate would refuse anyway.
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	set, err := h.perms.PermissionsFor(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"permissions": set})
}

// UpdateTimezone handles PUT /v1/me/timezone, storing the caller's preferred
// display zone. Stored zones feed the display fallback when a read request
// carries no ?tz= parameter.
func (h *UserHandler) UpdateTimezone(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTimezoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.accounts.UpdateTimezone(c.Request().Context(), userID, req.Timezone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// Grant handles PUT /v1/users/:id/permissions (admin only, gated in router).
func (h *UserHandler) Grant(c echo.Context) error {
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.perms.Grant(c.Request().Context(), c.Param("id"), domain.PermissionSet(req.Permissions)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
