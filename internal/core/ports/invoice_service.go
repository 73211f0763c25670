package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// LineItemInput is one billed row as submitted by the invoice form.
type LineItemInput struct {
	Description string
	Quantity    int
	UnitCents   int64
}

// CreateInvoiceInput carries all data needed to create a draft invoice.
type CreateInvoiceInput struct {
	CustomerID string
	JobID      string
	Currency   string
	LineItems  []LineItemInput
	DueDate    string // "2006-01-02", interpreted in the business timezone
	Timezone   string
}

// InvoicePage is returned by ListInvoices.
type InvoicePage struct {
	Items      []*domain.Invoice
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// InvoiceService defines use-case operations for invoices.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	// Transition moves the invoice to next, enforcing the status state machine.
	Transition(ctx context.Context, id string, next domain.InvoiceStatus) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter InvoiceListFilter) (*InvoicePage, error)
	// Export renders the invoices matching filter as an XLSX workbook.
	Export(ctx context.Context, filter InvoiceListFilter) ([]byte, error)
}
