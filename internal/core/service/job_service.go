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

// Regenerator abstracts the async occurrence-regeneration queue so the job
// service never blocks a request on recurrence expansion.
type Regenerator interface {
	EnqueueRegenerate(jobID string)
}

type jobService struct {
	repo     ports.JobRepository
	occRepo  ports.OccurrenceRepository
	custRepo ports.CustomerRepository
	settings ports.SettingsService
	regen    Regenerator
	log      zerolog.Logger
}

// NewJobService returns a JobService implementation. regen may be nil, in
// which case recurring jobs get no occurrences until the horizon cron runs.
func NewJobService(
	repo ports.JobRepository,
	occRepo ports.OccurrenceRepository,
	custRepo ports.CustomerRepository,
	settings ports.SettingsService,
	regen Regenerator,
	log zerolog.Logger,
) ports.JobService {
	return &jobService{
		repo:     repo,
		occRepo:  occRepo,
		custRepo: custRepo,
		settings: settings,
		regen:    regen,
		log:      log,
	}
}

// resolveZone picks the zone the form fields are interpreted in: explicit
// input first, then the business profile, then the boundary-layer default.
func (s *jobService) resolveZone(ctx context.Context, zone string) string {
	if zone != "" {
		return tz.ZoneOrDefault(zone)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings lookup failed, using default timezone")
		return tz.DefaultZone
	}
	return tz.ZoneOrDefault(settings.Timezone)
}

// convertSchedule pushes the form's wall-clock fields through the timezone
// boundary, yielding the UTC instants that get persisted.
func (s *jobService) convertSchedule(ctx context.Context, in ports.ScheduleInput) (start, end time.Time, err error) {
	zone := s.resolveZone(ctx, in.Timezone)

	start, err = tz.CombineAndConvert(in.StartDate, in.StartTime, zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("schedule start: %w", err)
	}
	end, err = tz.CombineAndConvert(in.EndDate, in.EndTime, zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("schedule end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("schedule end must be after start")
	}
	return start, end, nil
}

func validateRRule(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := rrule.StrToRRule(raw); err != nil {
		return fmt.Errorf("invalid recurrence rule: %w", err)
	}
	return nil
}

func (s *jobService) CreateJob(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	if _, err := s.custRepo.FindByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if err := validateRRule(input.RRule); err != nil {
		return nil, err
	}

	start, end, err := s.convertSchedule(ctx, input.Schedule)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:             uuid.NewString(),
		CustomerID:     input.CustomerID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         domain.JobScheduled,
		ScheduledStart: start,
		ScheduledEnd:   end,
		AssignedTo:     input.AssignedTo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.RRule != "" {
		job.Recurrence = &domain.Recurrence{RRule: input.RRule}
	}

	if err := s.repo.Create(ctx, job); err != nil {
		s.log.Error().Err(err).Msg("failed to create job")
		return nil, err
	}

	metrics.JobsCreatedTotal.WithLabelValues(recurringLabel(job)).Inc()
	s.log.Info().Str("job_id", job.ID).Str("customer_id", job.CustomerID).Bool("recurring", job.IsRecurring()).Msg("job created")

	if job.IsRecurring() && s.regen != nil {
		s.regen.EnqueueRegenerate(job.ID)
	}
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, id, zone string) (*ports.JobDetail, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	zone = s.resolveZone(ctx, zone)
	startDate, startTime, err := tz.SplitToLocal(job.ScheduledStart, zone)
	if err != nil {
		return nil, err
	}
	endDate, endTime, err := tz.SplitToLocal(job.ScheduledEnd, zone)
	if err != nil {
		return nil, err
	}

	return &ports.JobDetail{
		Job:       job,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		Timezone:  zone,
	}, nil
}

func (s *jobService) UpdateJob(ctx context.Context, id string, input ports.UpdateJobInput) (*domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateRRule(input.RRule); err != nil {
		return nil, err
	}

	start, end, err := s.convertSchedule(ctx, input.Schedule)
	if err != nil {
		return nil, err
	}

	wasRecurring := job.IsRecurring()

	job.Title = input.Title
	job.Description = input.Description
	job.AssignedTo = input.AssignedTo
	job.ScheduledStart = start
	job.ScheduledEnd = end
	if input.RRule != "" {
		job.Recurrence = &domain.Recurrence{RRule: input.RRule}
	} else {
		job.Recurrence = nil
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", id).Msg("failed to update job")
		return nil, err
	}

	// Re-expansion also clears stale occurrences when the rule was removed.
	if (job.IsRecurring() || wasRecurring) && s.regen != nil {
		s.regen.EnqueueRegenerate(job.ID)
	}
	return job, nil
}

func (s *jobService) DeleteJob(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.occRepo.DeleteForJob(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("job_id", id).Msg("failed to delete occurrences for removed job")
	}
	s.log.Info().Str("job_id", id).Msg("job deleted")
	return nil
}

func (s *jobService) Transition(ctx context.Context, id string, next domain.JobStatus) (*domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !job.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidJobTransition, job.Status, next)
	}

	job.Status = next
	job.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().Str("job_id", id).Str("status", string(next)).Msg("job status changed")
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter ports.JobListFilter) (*ports.JobPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.JobPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func recurringLabel(j *domain.Job) string {
	if j.IsRecurring() {
		return "recurring"
	}
	return "single"
}
