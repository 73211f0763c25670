package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

const maxPageLimit = 100

type customerService struct {
	repo ports.CustomerRepository
	log  zerolog.Logger
}

// NewCustomerService returns a CustomerService implementation.
func NewCustomerService(repo ports.CustomerRepository, log zerolog.Logger) ports.CustomerService {
	return &customerService{repo: repo, log: log}
}

func (s *customerService) CreateCustomer(ctx context.Context, input ports.CustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Address: domain.Address{
			Street:  input.Street,
			City:    input.City,
			State:   input.State,
			ZipCode: input.ZipCode,
		},
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		s.log.Error().Err(err).Msg("failed to create customer")
		return nil, err
	}

	s.log.Info().Str("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, input ports.CustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = domain.Address{
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
	}
	customer.Notes = input.Notes
	customer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, customer); err != nil {
		s.log.Error().Err(err).Str("customer_id", id).Msg("failed to update customer")
		return nil, err
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter ports.CustomerListFilter) (*ports.CustomerPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.CustomerPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
