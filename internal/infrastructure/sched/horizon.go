// Package sched runs the periodic occurrence-horizon maintenance.
package sched

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// HorizonCron periodically extends the materialized occurrence window so
// recurring jobs never run off the end of the calendar.
type HorizonCron struct {
	cron     *cron.Cron
	schedule ports.ScheduleService
	log      zerolog.Logger
}

// NewHorizonCron builds the cron with the given spec (standard 5-field
// syntax, e.g. "0 3 * * *" for daily at 03:00 UTC).
func NewHorizonCron(spec string, schedule ports.ScheduleService, log zerolog.Logger) (*HorizonCron, error) {
	h := &HorizonCron{
		cron:     cron.New(),
		schedule: schedule,
		log:      log,
	}

	if _, err := h.cron.AddFunc(spec, h.run); err != nil {
		return nil, fmt.Errorf("horizon cron spec %q: %w", spec, err)
	}
	return h, nil
}

// Start begins scheduling. Non-blocking.
func (h *HorizonCron) Start() {
	h.cron.Start()
}

// Stop halts scheduling and waits for a running pass to finish.
func (h *HorizonCron) Stop() {
	<-h.cron.Stop().Done()
}

func (h *HorizonCron) run() {
	result, err := h.schedule.ExtendHorizon(context.Background())
	if err != nil {
		h.log.Error().Err(err).Msg("scheduled horizon extension failed")
		return
	}
	h.log.Info().
		Int("jobs", result.JobsExtended).
		Int("occurrences", result.OccurrencesAdded).
		Msg("scheduled horizon extension complete")
}
