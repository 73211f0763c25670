package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// SettingsHandler reads and updates the business profile.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type updateSettingsRequest struct {
	BusinessName string `json:"business_name" validate:"required"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	Timezone     string `json:"timezone"`
}

// Get handles GET /v1/settings.
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Update handles PUT /v1/settings.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	settings, err := h.service.Update(c.Request().Context(), ports.UpdateSettingsInput{
		BusinessName: req.BusinessName,
		LogoURL:      req.LogoURL,
		Timezone:     req.Timezone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
