package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

type settingsService struct {
	repo ports.SettingsRepository
	log  zerolog.Logger
}

// NewSettingsService returns a SettingsService implementation.
func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) ports.SettingsService {
	return &settingsService{repo: repo, log: log}
}

// Get returns the business profile. Before first save it returns defaults
// rather than an error so callers always have a usable timezone.
func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return &domain.Settings{Timezone: tz.DefaultZone}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, input ports.UpdateSettingsInput) (*domain.Settings, error) {
	if input.Timezone != "" {
		if _, err := tz.ToLocal(time.Now().UTC(), input.Timezone); err != nil {
			return nil, err
		}
	}

	settings := &domain.Settings{
		BusinessName: input.BusinessName,
		LogoURL:      input.LogoURL,
		Timezone:     input.Timezone,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		s.log.Error().Err(err).Msg("failed to save settings")
		return nil, err
	}

	s.log.Info().Str("business_name", settings.BusinessName).Str("timezone", settings.Timezone).Msg("settings updated")
	return settings, nil
}
