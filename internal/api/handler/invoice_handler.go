package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

type lineItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UnitCents   int64  `json:"unit_cents" validate:"required,gt=0"`
}

type createInvoiceRequest struct {
	CustomerID string            `json:"customer_id" validate:"required"`
	JobID      string            `json:"job_id"`
	Currency   string            `json:"currency" validate:"required,len=3"`
	LineItems  []lineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	DueDate    string            `json:"due_date" validate:"required,datetime=2006-01-02"`
	Timezone   string            `json:"timezone"`
}

// Create handles POST /v1/invoices.
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	input := ports.CreateInvoiceInput{
		CustomerID: req.CustomerID,
		JobID:      req.JobID,
		Currency:   req.Currency,
		DueDate:    req.DueDate,
		Timezone:   req.Timezone,
	}
	for _, li := range req.LineItems {
		input.LineItems = append(input.LineItems, ports.LineItemInput{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitCents:   li.UnitCents,
		})
	}

	invoice, err := h.service.CreateInvoice(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// Get handles GET /v1/invoices/:id.
func (h *InvoiceHandler) Get(c echo.Context) error {
	invoice, err := h.service.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// Transition handles POST /v1/invoices/:id/transition.
func (h *InvoiceHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	invoice, err := h.service.Transition(c.Request().Context(), c.Param("id"), domain.InvoiceStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// List handles GET /v1/invoices.
func (h *InvoiceHandler) List(c echo.Context) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	page, err := h.service.ListInvoices(c.Request().Context(), filter)
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

// Export handles GET /v1/invoices/export, streaming an XLSX workbook of the
// invoices matching the same filters as List.
func (h *InvoiceHandler) Export(c echo.Context) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	data, err := h.service.Export(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	filename := "invoices-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
