package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/teambition/rrule-go"

	"github.com/fieldserve/fieldservice-system/internal/api/metrics"
	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

const (
	defaultHorizonDays = 90
	// maxOccurrencesPerJob caps expansion so a pathological rule cannot
	// flood the occurrences collection.
	maxOccurrencesPerJob = 1000
)

type scheduleService struct {
	jobRepo     ports.JobRepository
	occRepo     ports.OccurrenceRepository
	horizonDays int
	log         zerolog.Logger
}

// NewScheduleService returns a ScheduleService implementation. horizonDays
// bounds how far ahead occurrences are materialized; <= 0 uses the default.
func NewScheduleService(jobRepo ports.JobRepository, occRepo ports.OccurrenceRepository, horizonDays int, log zerolog.Logger) ports.ScheduleService {
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}
	return &scheduleService{
		jobRepo:     jobRepo,
		occRepo:     occRepo,
		horizonDays: horizonDays,
		log:         log,
	}
}

// expand materializes occurrences of job within (after, until]. The rule's
// DTSTART is the job's scheduled start; every occurrence keeps the job's
// duration. The returned flag reports whether the cap cut the expansion
// short of until.
func expand(job *domain.Job, after, until time.Time) ([]*domain.Occurrence, bool, error) {
	r, err := rrule.StrToRRule(job.Recurrence.RRule)
	if err != nil {
		return nil, false, fmt.Errorf("job %s: %w", job.ID, err)
	}
	r.DTStart(job.ScheduledStart)

	duration := job.ScheduledEnd.Sub(job.ScheduledStart)
	starts := r.Between(after, until, false)
	capped := len(starts) > maxOccurrencesPerJob
	if capped {
		starts = starts[:maxOccurrencesPerJob]
	}

	occurrences := make([]*domain.Occurrence, 0, len(starts))
	for _, start := range starts {
		start = start.UTC()
		occurrences = append(occurrences, &domain.Occurrence{
			ID:    uuid.NewString(),
			JobID: job.ID,
			Start: start,
			End:   start.Add(duration),
		})
	}
	return occurrences, capped, nil
}

// Regenerate drops and re-expands occurrences for one job. A job without a
// recurrence rule simply has its occurrences cleared, which is what remains
// correct after a rule is removed in an edit.
func (s *scheduleService) Regenerate(ctx context.Context, input ports.RegenerateInput) error {
	job, err := s.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		return err
	}

	if !job.IsRecurring() {
		return s.occRepo.ReplaceForJob(ctx, job.ID, nil)
	}

	horizon := time.Now().UTC().AddDate(0, 0, s.horizonDays)
	occurrences, capped, err := expand(job, job.ScheduledStart.Add(-time.Second), horizon)
	if err != nil {
		return err
	}

	if err := s.occRepo.ReplaceForJob(ctx, job.ID, occurrences); err != nil {
		return fmt.Errorf("replace occurrences: %w", err)
	}

	// A capped expansion covers only part of the window. Record the last
	// materialized start so the next horizon pass resumes from there
	// instead of leaving a gap it believes is already filled.
	if capped {
		horizon = occurrences[len(occurrences)-1].Start
		s.log.Warn().Str("job_id", job.ID).Time("materialized_until", horizon).Msg("occurrence cap reached, expansion incomplete")
	}
	job.Recurrence.HorizonUntil = horizon
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("update horizon: %w", err)
	}

	metrics.OccurrencesExpandedTotal.WithLabelValues("regenerate").Add(float64(len(occurrences)))
	s.log.Info().Str("job_id", job.ID).Int("occurrences", len(occurrences)).Time("horizon", horizon).Msg("occurrences regenerated")
	return nil
}

// ExtendHorizon materializes occurrences for every recurring job up to the
// new horizon. Jobs already expanded past it are skipped. A failure on one
// job is logged and does not abort the pass for the others.
func (s *scheduleService) ExtendHorizon(ctx context.Context) (*ports.ExtendHorizonResult, error) {
	jobs, err := s.jobRepo.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}

	newHorizon := time.Now().UTC().AddDate(0, 0, s.horizonDays)
	result := &ports.ExtendHorizonResult{NewHorizon: newHorizon}

	for _, job := range jobs {
		if !job.Recurrence.HorizonUntil.Before(newHorizon) {
			continue
		}

		after := job.Recurrence.HorizonUntil
		if after.IsZero() {
			after = job.ScheduledStart.Add(-time.Second)
		}

		occurrences, capped, err := expand(job, after, newHorizon)
		if err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Msg("horizon expansion failed")
			continue
		}

		if len(occurrences) > 0 {
			if err := s.occRepo.InsertMany(ctx, occurrences); err != nil {
				s.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to insert horizon occurrences")
				continue
			}
		}

		jobHorizon := newHorizon
		if capped {
			jobHorizon = occurrences[len(occurrences)-1].Start
			s.log.Warn().Str("job_id", job.ID).Time("materialized_until", jobHorizon).Msg("occurrence cap reached, expansion incomplete")
		}
		job.Recurrence.HorizonUntil = jobHorizon
		job.UpdatedAt = time.Now().UTC()
		if err := s.jobRepo.Update(ctx, job); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist new horizon")
			continue
		}

		result.JobsExtended++
		result.OccurrencesAdded += len(occurrences)
	}

	metrics.OccurrencesExpandedTotal.WithLabelValues("extend_horizon").Add(float64(result.OccurrencesAdded))
	s.log.Info().Int("jobs", result.JobsExtended).Int("occurrences", result.OccurrencesAdded).Time("horizon", newHorizon).Msg("horizon extended")
	return result, nil
}

// Calendar builds the widget read model: single jobs overlapping the range
// plus materialized occurrences of recurring jobs, all serialized through
// the timezone boundary's calendar-string form.
func (s *scheduleService) Calendar(ctx context.Context, from, to time.Time) ([]ports.CalendarEntry, error) {
	jobs, err := s.jobRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.CalendarEntry, 0, len(jobs))
	for _, job := range jobs {
		if job.IsRecurring() {
			continue // represented by its occurrences below
		}
		entries = append(entries, ports.CalendarEntry{
			JobID:      job.ID,
			Title:      job.Title,
			CustomerID: job.CustomerID,
			Status:     string(job.Status),
			Start:      tz.ToCalendarString(job.ScheduledStart),
			End:        tz.ToCalendarString(job.ScheduledEnd),
		})
	}

	occurrences, err := s.occRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return entries, nil
	}

	recurring, err := s.jobRepo.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Job, len(recurring))
	for _, job := range recurring {
		byID[job.ID] = job
	}

	for _, occ := range occurrences {
		job, ok := byID[occ.JobID]
		if !ok {
			continue // occurrence orphaned by a concurrent delete
		}
		entries = append(entries, ports.CalendarEntry{
			JobID:      job.ID,
			Title:      job.Title,
			CustomerID: job.CustomerID,
			Status:     string(job.Status),
			Start:      tz.ToCalendarString(occ.Start),
			End:        tz.ToCalendarString(occ.End),
			Recurring:  true,
		})
	}

	return entries, nil
}
