package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// CustomerListFilter carries query parameters for listing customers.
type CustomerListFilter struct {
	Search string // optional: partial match on name or email
	Page   int    // 1-based
	Limit  int    // max rows per page (capped by service)
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
	// List returns a page of customers matching filter and the total count.
	List(ctx context.Context, filter CustomerListFilter) ([]*domain.Customer, int64, error)
}
