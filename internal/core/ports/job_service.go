package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// ScheduleInput is the wall-clock schedule as entered in the job form: two
// separate field pairs plus the zone they are interpreted in. The service
// pushes these through the timezone boundary; nothing downstream ever sees
// local time again.
type ScheduleInput struct {
	StartDate string // "2006-01-02"
	StartTime string // "15:04"
	EndDate   string
	EndTime   string
	Timezone  string // IANA identifier; empty = settings/default fallback
}

// CreateJobInput carries all data needed to create a job.
type CreateJobInput struct {
	CustomerID  string
	Title       string
	Description string
	AssignedTo  string
	Schedule    ScheduleInput
	RRule       string // optional RFC 5545 recurrence rule
}

// UpdateJobInput mirrors CreateJobInput for edits.
type UpdateJobInput struct {
	Title       string
	Description string
	AssignedTo  string
	Schedule    ScheduleInput
	RRule       string
}

// JobDetail is the job plus its schedule rendered back into form-field
// wall-clock values for editing.
type JobDetail struct {
	Job       *domain.Job
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	Timezone  string
}

// JobPage is returned by ListJobs.
type JobPage struct {
	Items      []*domain.Job
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// JobService defines use-case operations for jobs.
type JobService interface {
	CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error)
	// GetJob returns the job with its schedule split into form fields for
	// the given display zone (empty = stored default).
	GetJob(ctx context.Context, id, zone string) (*JobDetail, error)
	UpdateJob(ctx context.Context, id string, input UpdateJobInput) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	// Transition moves the job to next, enforcing the status state machine.
	Transition(ctx context.Context, id string, next domain.JobStatus) (*domain.Job, error)
	ListJobs(ctx context.Context, filter JobListFilter) (*JobPage, error)
}
