package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// CustomerInput carries the mutable fields of a customer record.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Street  string
	City    string
	State   string
	ZipCode string
	Notes   string
}

// CustomerPage is returned by ListCustomers.
type CustomerPage struct {
	Items      []*domain.Customer
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CustomerService defines use-case operations for customer records.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context, filter CustomerListFilter) (*CustomerPage, error)
}
