package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer records.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Notes   string `json:"notes"`
}

func (r customerRequest) toInput() ports.CustomerInput {
	return ports.CustomerInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Notes:   r.Notes,
	}
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	customer, err := h.service.CreateCustomer(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.GetCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Update handles PUT /v1/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	customer, err := h.service.UpdateCustomer(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /v1/customers/:id.
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCustomer(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	page, err := h.service.ListCustomers(c.Request().Context(), ports.CustomerListFilter{
		Search: c.QueryParam("search"),
		Page:   parseIntParam(c, "page"),
		Limit:  parseIntParam(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": page.Items,
		"pagination": paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}
