package domain

import (
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a scheduled job.
type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// validJobTransitions defines the allowed state machine transitions.
var validJobTransitions = map[JobStatus][]JobStatus{
	JobScheduled:  {JobInProgress, JobCancelled},
	JobInProgress: {JobCompleted, JobCancelled},
}

var ErrJobNotFound = errors.New("job not found")
var ErrOccurrenceNotFound = errors.New("occurrence not found")
var ErrInvalidJobTransition = errors.New("invalid job status transition")
var ErrNotRecurring = errors.New("job has no recurrence rule")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range validJobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Recurrence describes how a job repeats. RRule is an RFC 5545 recurrence
// rule string ("FREQ=WEEKLY;BYDAY=MO,WE"); HorizonUntil marks how far ahead
// occurrences have been materialized.
type Recurrence struct {
	RRule        string    `json:"rrule" bson:"rrule"`
	HorizonUntil time.Time `json:"horizon_until" bson:"horizon_until"`
}

// Job is the core scheduling aggregate. ScheduledStart and ScheduledEnd are
// absolute UTC instants; the wall-clock representation a dispatcher or
// technician sees is derived per-viewer at the timezone boundary.
type Job struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	CustomerID     string      `json:"customer_id" bson:"customer_id"`
	Title          string      `json:"title" bson:"title"`
	Description    string      `json:"description,omitempty" bson:"description,omitempty"`
	Status         JobStatus   `json:"status" bson:"status"`
	ScheduledStart time.Time   `json:"scheduled_start" bson:"scheduled_start"`
	ScheduledEnd   time.Time   `json:"scheduled_end" bson:"scheduled_end"`
	AssignedTo     string      `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Recurrence     *Recurrence `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}

// IsRecurring reports whether the job carries a recurrence rule.
func (j *Job) IsRecurring() bool {
	return j.Recurrence != nil && j.Recurrence.RRule != ""
}

// Occurrence is a single materialized instance of a recurring job within the
// scheduling horizon. Start and End are UTC instants.
type Occurrence struct {
	ID    string    `json:"id" bson:"_id,omitempty"`
	JobID string    `json:"job_id" bson:"job_id"`
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}
