package export

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

// CalendarFeed serializes calendar entries as an iCalendar document that
// external clients can subscribe to. Entry instants are calendar strings
// (RFC 3339 UTC) straight from the timezone boundary.
func CalendarFeed(entries []ports.CalendarEntry, businessName string) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + businessName + "//fieldservice//EN")

	for _, entry := range entries {
		start, err := time.Parse(time.RFC3339, entry.Start)
		if err != nil {
			return "", err
		}
		end, err := time.Parse(time.RFC3339, entry.End)
		if err != nil {
			return "", err
		}

		// One VEVENT per materialized slot; recurring jobs contribute one
		// entry per occurrence, so UIDs carry the start to stay unique.
		uid := entry.JobID + "-" + tz.ToCalendarString(start)
		ev := cal.AddEvent(uid)
		ev.SetSummary(entry.Title)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetProperty(ics.ComponentPropertyStatus, icsStatus(entry.Status))
	}

	return cal.Serialize(), nil
}

func icsStatus(jobStatus string) string {
	switch jobStatus {
	case "cancelled":
		return "CANCELLED"
	default:
		return "CONFIRMED"
	}
}
