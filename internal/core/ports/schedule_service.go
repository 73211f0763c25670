package ports

import (
	"context"
	"time"
)

// CalendarEntry is one renderable slot for the calendar widget. Start and
// End are calendar-string instants (RFC 3339 UTC) produced by the timezone
// boundary; the widget does its own zone shifting.
type CalendarEntry struct {
	JobID      string
	Title      string
	CustomerID string
	Status     string
	Start      string
	End        string
	Recurring  bool
}

// RegenerateInput identifies one recurring job whose occurrences should be
// dropped and re-expanded.
type RegenerateInput struct {
	JobID string
}

// ExtendHorizonResult reports the outcome of a horizon extension pass.
type ExtendHorizonResult struct {
	JobsExtended     int
	OccurrencesAdded int
	NewHorizon       time.Time
}

// ScheduleService owns recurrence expansion and the calendar read model.
type ScheduleService interface {
	// Calendar returns entries for all jobs and materialized occurrences
	// overlapping [from, to].
	Calendar(ctx context.Context, from, to time.Time) ([]CalendarEntry, error)
	// Regenerate drops and re-expands occurrences for one recurring job.
	Regenerate(ctx context.Context, input RegenerateInput) error
	// ExtendHorizon materializes occurrences for every recurring job up to
	// now plus the configured horizon window.
	ExtendHorizon(ctx context.Context) (*ExtendHorizonResult, error)
}
