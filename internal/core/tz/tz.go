// Package tz is the timezone boundary layer. Every instant the system
// persists is UTC; every wall-clock value a user sees or types crosses
// through this package exactly once per direction. Centralizing the
// conversion keeps offset arithmetic out of handlers and forms.
package tz

import (
	"errors"
	"fmt"
	"time"
)

// DefaultZone is the fallback IANA identifier used when user settings carry
// no timezone.
const DefaultZone = "America/New_York"

// Layouts for the wall-clock representations exchanged with forms and the
// calendar widget.
const (
	LayoutDateTime = "2006-01-02 15:04:05"
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04"
)

var ErrUnknownZone = errors.New("unknown timezone identifier")

// LocalDateTime is a wall-clock date/time interpreted relative to an IANA
// timezone. It exists only transiently at the edges; the stored form is
// always a UTC instant.
type LocalDateTime struct {
	Date string // "2006-01-02"
	Time string // "15:04"
}

// loadZone resolves an IANA identifier, mapping failures to ErrUnknownZone.
func loadZone(zone string) (*time.Location, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	return loc, nil
}

// ToInstant interprets local as wall-clock time in zone and returns the
// corresponding UTC instant. Seconds are always zero, matching the minute
// precision of the date/time form fields.
func ToInstant(local LocalDateTime, zone string) (time.Time, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(LayoutDate+" "+LayoutTime, local.Date+" "+local.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local datetime: %w", err)
	}
	return t.UTC(), nil
}

// ToLocal converts a UTC instant to the wall-clock representation in zone.
// Deterministic for a given (instant, zone) pair; seconds are truncated.
func ToLocal(instant time.Time, zone string) (LocalDateTime, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return LocalDateTime{}, err
	}
	t := instant.In(loc)
	return LocalDateTime{
		Date: t.Format(LayoutDate),
		Time: t.Format(LayoutTime),
	}, nil
}

// FormatLocal renders the instant in zone under layout. An empty layout
// falls back to LayoutDateTime.
func FormatLocal(instant time.Time, zone, layout string) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	if layout == "" {
		layout = LayoutDateTime
	}
	return instant.In(loc).Format(layout), nil
}

// CombineAndConvert composes separately entered date ("2006-01-02") and time
// ("15:04") form fields into one wall-clock value in zone, then converts to
// a UTC instant. The composed value has zero seconds.
func CombineAndConvert(dateStr, timeStr, zone string) (time.Time, error) {
	return ToInstant(LocalDateTime{Date: dateStr, Time: timeStr}, zone)
}

// SplitToLocal decomposes an instant into the date and time field values
// used to pre-fill edit forms.
func SplitToLocal(instant time.Time, zone string) (dateStr, timeStr string, err error) {
	local, err := ToLocal(instant, zone)
	if err != nil {
		return "", "", err
	}
	return local.Date, local.Time, nil
}

// NowInZone returns wall-clock "now" in zone. Not deterministic.
func NowInZone(zone string) (LocalDateTime, error) {
	return ToLocal(time.Now().UTC(), zone)
}

// ToCalendarString serializes an instant to RFC 3339 UTC, the one form the
// calendar widget parses unambiguously.
func ToCalendarString(instant time.Time) string {
	return instant.UTC().Format(time.RFC3339)
}

// LocalToCalendarString converts a wall-clock value in zone straight to a
// calendar string.
func LocalToCalendarString(local LocalDateTime, zone string) (string, error) {
	instant, err := ToInstant(local, zone)
	if err != nil {
		return "", err
	}
	return ToCalendarString(instant), nil
}

// CalendarStringInZone renders the instant as a calendar-parseable string
// carrying the zone's offset rather than UTC, for zone-aware widgets.
func CalendarStringInZone(instant time.Time, zone string) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(time.RFC3339), nil
}

// ZoneOrDefault returns zone when it is non-empty and resolvable, otherwise
// DefaultZone. Use at the settings boundary so downstream calls never see an
// empty identifier.
func ZoneOrDefault(zone string) string {
	if zone == "" {
		return DefaultZone
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return DefaultZone
	}
	return zone
}
