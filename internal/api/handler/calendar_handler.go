package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
	"github.com/fieldserve/fieldservice-system/internal/export"
)

// CalendarHandler serves the calendar widget read model and the external
// iCalendar feed.
type CalendarHandler struct {
	schedule ports.ScheduleService
	settings ports.SettingsService
	accounts ports.AuthService
}

func NewCalendarHandler(schedule ports.ScheduleService, settings ports.SettingsService, accounts ports.AuthService) *CalendarHandler {
	return &CalendarHandler{schedule: schedule, settings: settings, accounts: accounts}
}

type calendarEntryResponse struct {
	JobID      string `json:"job_id"`
	Title      string `json:"title"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Start      string `json:"start"`
	End        string `json:"end"`
	LocalStart string `json:"local_start,omitempty"`
	LocalEnd   string `json:"local_end,omitempty"`
	Recurring  bool   `json:"recurring"`
}

// List handles GET /v1/calendar. Entries carry RFC 3339 UTC instants for the
// widget; when a display zone is known (?tz= or the caller's stored
// preference) each entry also carries the zone-local rendering.
func (h *CalendarHandler) List(c echo.Context) error {
	from, to, err := parseCalendarRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	entries, err := h.schedule.Calendar(c.Request().Context(), from, to)
	if err != nil {
		return err
	}

	zone := queryZone(c)
	if zone == "" {
		zone = callerZone(c, h.accounts)
	}
	data := make([]calendarEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := calendarEntryResponse{
			JobID:      entry.JobID,
			Title:      entry.Title,
			CustomerID: entry.CustomerID,
			Status:     entry.Status,
			Start:      entry.Start,
			End:        entry.End,
			Recurring:  entry.Recurring,
		}
		if zone != "" {
			start, perr := parseTimeParamValue(entry.Start)
			end, perr2 := parseTimeParamValue(entry.End)
			if perr == nil && perr2 == nil {
				if resp.LocalStart, err = tz.CalendarStringInZone(start, zone); err != nil {
					return err
				}
				if resp.LocalEnd, err = tz.CalendarStringInZone(end, zone); err != nil {
					return err
				}
			}
		}
		data = append(data, resp)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// Feed handles GET /v1/calendar/feed.ics, the subscribable iCalendar export.
func (h *CalendarHandler) Feed(c echo.Context) error {
	from, to, err := parseCalendarRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	entries, err := h.schedule.Calendar(c.Request().Context(), from, to)
	if err != nil {
		return err
	}

	businessName := "Field Service"
	if settings, serr := h.settings.Get(c.Request().Context()); serr == nil && settings.BusinessName != "" {
		businessName = settings.BusinessName
	}

	feed, err := export.CalendarFeed(entries, businessName)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "text/calendar", []byte(feed))
}
