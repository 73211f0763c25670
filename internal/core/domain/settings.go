package domain

import (
	"errors"
	"time"
)

var ErrSettingsNotFound = errors.New("settings not found")

// Settings holds the single per-deployment business profile. Timezone is an
// IANA identifier and may be empty, in which case callers fall back to the
// boundary layer's default zone.
type Settings struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	BusinessName string    `json:"business_name" bson:"business_name"`
	LogoURL      string    `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	Timezone     string    `json:"timezone,omitempty" bson:"timezone,omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
