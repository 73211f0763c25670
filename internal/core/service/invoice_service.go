package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
	"github.com/fieldserve/fieldservice-system/internal/export"
)

type invoiceService struct {
	repo     ports.InvoiceRepository
	custRepo ports.CustomerRepository
	settings ports.SettingsService
	log      zerolog.Logger
}

// NewInvoiceService returns an InvoiceService implementation.
func NewInvoiceService(repo ports.InvoiceRepository, custRepo ports.CustomerRepository, settings ports.SettingsService, log zerolog.Logger) ports.InvoiceService {
	return &invoiceService{repo: repo, custRepo: custRepo, settings: settings, log: log}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if _, err := s.custRepo.FindByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if len(input.LineItems) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line item")
	}

	zone := input.Timezone
	if zone == "" {
		if settings, err := s.settings.Get(ctx); err == nil {
			zone = settings.Timezone
		}
	}
	zone = tz.ZoneOrDefault(zone)

	// Due dates are entered as a bare date; interpret as end of that day in
	// the business zone so the invoice stays payable through the whole day.
	dueAt, err := tz.CombineAndConvert(input.DueDate, "23:59", zone)
	if err != nil {
		return nil, fmt.Errorf("due date: %w", err)
	}

	seq, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice number: %w", err)
	}

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:         uuid.NewString(),
		Number:     fmt.Sprintf("INV-%06d", seq),
		CustomerID: input.CustomerID,
		JobID:      input.JobID,
		Status:     domain.InvoiceDraft,
		Currency:   input.Currency,
		IssuedAt:   now,
		DueAt:      dueAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, li := range input.LineItems {
		invoice.LineItems = append(invoice.LineItems, domain.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitCents:   li.UnitCents,
		})
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		s.log.Error().Err(err).Msg("failed to create invoice")
		return nil, err
	}

	s.log.Info().Str("invoice_id", invoice.ID).Str("number", invoice.Number).Int64("total_cents", invoice.TotalCents()).Msg("invoice created")
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *invoiceService) Transition(ctx context.Context, id string, next domain.InvoiceStatus) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidInvoiceTransition, invoice.Status, next)
	}

	invoice.Status = next
	invoice.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.log.Info().Str("invoice_id", id).Str("status", string(next)).Msg("invoice status changed")
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter ports.InvoiceListFilter) (*ports.InvoicePage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.InvoicePage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Export renders matching invoices as an XLSX workbook. The filter's
// pagination is deliberately ignored: exports cover the whole result set.
func (s *invoiceService) Export(ctx context.Context, filter ports.InvoiceListFilter) ([]byte, error) {
	filter.Page = 1
	filter.Limit = maxPageLimit

	var all []*domain.Invoice
	for {
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if int64(len(all)) >= total || len(items) == 0 {
			break
		}
		filter.Page++
	}

	zone := tz.DefaultZone
	if settings, err := s.settings.Get(ctx); err == nil {
		zone = tz.ZoneOrDefault(settings.Timezone)
	}

	data, err := export.InvoiceWorkbook(all, zone)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	s.log.Info().Int("invoices", len(all)).Msg("invoice export generated")
	return data, nil
}
