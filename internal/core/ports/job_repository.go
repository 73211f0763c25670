package ports

import (
	"context"
	"time"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// JobListFilter carries query parameters for listing jobs.
type JobListFilter struct {
	CustomerID string    // optional: scope to one customer
	Status     string    // optional: filter by job status
	AssignedTo string    // optional: scope to one technician
	From       time.Time // optional: scheduled_start >= From
	To         time.Time // optional: scheduled_start <= To
	Page       int       // 1-based
	Limit      int       // max rows per page (capped by service)
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	Create(ctx context.Context, j *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, j *domain.Job) error
	Delete(ctx context.Context, id string) error
	// List returns a page of jobs matching filter and the total count.
	List(ctx context.Context, filter JobListFilter) ([]*domain.Job, int64, error)
	// ListInRange returns jobs whose scheduled window overlaps [from, to],
	// unpaginated, for the calendar read model.
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Job, error)
	// ListRecurring returns every job carrying a recurrence rule, for
	// horizon maintenance. No pagination: recurring jobs are few.
	ListRecurring(ctx context.Context) ([]*domain.Job, error)
}

// OccurrenceRepository defines persistence for materialized occurrences of
// recurring jobs.
type OccurrenceRepository interface {
	// ReplaceForJob atomically deletes all occurrences of the job and
	// inserts the given replacements.
	ReplaceForJob(ctx context.Context, jobID string, occurrences []*domain.Occurrence) error
	// InsertMany appends occurrences without touching existing ones.
	InsertMany(ctx context.Context, occurrences []*domain.Occurrence) error
	// ListInRange returns occurrences overlapping [from, to], sorted by start.
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Occurrence, error)
	DeleteForJob(ctx context.Context, jobID string) error
}
