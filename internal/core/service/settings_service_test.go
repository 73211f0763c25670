package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

func TestSettingsGet_DefaultsBeforeFirstSave(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{}, zerolog.Nop())

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.Timezone != tz.DefaultZone {
		t.Errorf("timezone = %q, want %q", settings.Timezone, tz.DefaultZone)
	}
	if settings.BusinessName != "" {
		t.Errorf("business name = %q, want empty", settings.BusinessName)
	}
}

func TestSettingsUpdate_RoundTrips(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc := NewSettingsService(repo, zerolog.Nop())

	saved, err := svc.Update(context.Background(), ports.UpdateSettingsInput{
		BusinessName: "Hudson Valley HVAC",
		LogoURL:      "https://cdn.example/logo.png",
		Timezone:     "America/Chicago",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved.Timezone != "America/Chicago" {
		t.Errorf("timezone = %q", saved.Timezone)
	}

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.BusinessName != "Hudson Valley HVAC" {
		t.Errorf("business name = %q", settings.BusinessName)
	}
}

func TestSettingsUpdate_RejectsUnknownTimezone(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{}, zerolog.Nop())

	_, err := svc.Update(context.Background(), ports.UpdateSettingsInput{
		BusinessName: "X",
		Timezone:     "Mars/Olympus_Mons",
	})
	if !errors.Is(err, tz.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}
