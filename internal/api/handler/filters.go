package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// parseTimeParam parses an optional RFC 3339 query parameter. A zero time
// means "unset".
func parseTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be RFC 3339 (e.g. 2024-06-01T00:00:00Z)", name)
	}
	return t.UTC(), nil
}

// parseTimeParamValue parses a calendar-string instant (RFC 3339).
func parseTimeParamValue(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

func parseIntParam(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

func parseJobFilter(c echo.Context) (ports.JobListFilter, error) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		return ports.JobListFilter{}, err
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		return ports.JobListFilter{}, err
	}

	return ports.JobListFilter{
		CustomerID: c.QueryParam("customer_id"),
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assigned_to"),
		From:       from,
		To:         to,
		Page:       parseIntParam(c, "page"),
		Limit:      parseIntParam(c, "limit"),
	}, nil
}

func parseInvoiceFilter(c echo.Context) (ports.InvoiceListFilter, error) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		return ports.InvoiceListFilter{}, err
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		return ports.InvoiceListFilter{}, err
	}

	return ports.InvoiceListFilter{
		CustomerID: c.QueryParam("customer_id"),
		Status:     c.QueryParam("status"),
		From:       from,
		To:         to,
		Page:       parseIntParam(c, "page"),
		Limit:      parseIntParam(c, "limit"),
	}, nil
}

// parseCalendarRange reads the required from/to window for calendar reads,
// defaulting to the current month when absent.
func parseCalendarRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if from.IsZero() || to.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}
