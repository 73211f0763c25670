package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// SettingsRepository persists the single business profile document.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	// Upsert writes the profile, creating it on first save.
	Upsert(ctx context.Context, s *domain.Settings) error
}

// UpdateSettingsInput carries the editable business profile fields.
type UpdateSettingsInput struct {
	BusinessName string
	LogoURL      string
	Timezone     string
}

// SettingsService reads and updates the business profile. Get never fails on
// a missing document; it returns defaults so callers always have a timezone.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error)
}
