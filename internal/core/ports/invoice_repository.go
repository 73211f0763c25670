package ports

import (
	"context"
	"time"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// InvoiceListFilter carries query parameters for listing invoices.
type InvoiceListFilter struct {
	CustomerID string    // optional: scope to one customer
	Status     string    // optional: filter by invoice status
	From       time.Time // optional: issued_at >= From
	To         time.Time // optional: issued_at <= To
	Page       int       // 1-based
	Limit      int       // max rows per page (capped by service)
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, i *domain.Invoice) error
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	Update(ctx context.Context, i *domain.Invoice) error
	// List returns a page of invoices matching filter and the total count.
	List(ctx context.Context, filter InvoiceListFilter) ([]*domain.Invoice, int64, error)
	// NextNumber reserves the next sequential invoice number.
	NextNumber(ctx context.Context) (int64, error)
}
