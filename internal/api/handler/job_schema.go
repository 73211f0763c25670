package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// scheduleRequest is the wall-clock schedule exactly as the job form submits
// it: separate date and time fields plus the zone they were typed in.
type scheduleRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	EndTime   string `json:"end_time"   validate:"required,datetime=15:04"`
	Timezone  string `json:"timezone"`
}

type createJobRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	Title       string          `json:"title"       validate:"required"`
	Description string          `json:"description"`
	AssignedTo  string          `json:"assigned_to"`
	Schedule    scheduleRequest `json:"schedule"    validate:"required"`
	RRule       string          `json:"rrule"`
}

type updateJobRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Description string          `json:"description"`
	AssignedTo  string          `json:"assigned_to"`
	Schedule    scheduleRequest `json:"schedule"    validate:"required"`
	RRule       string          `json:"rrule"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type jobResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	RRule          string    `json:"rrule,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// jobDetailResponse adds the form-field wall-clock view used to pre-fill the
// edit form, alongside the raw instants.
type jobDetailResponse struct {
	jobResponse
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listJobsResponse struct {
	Data       []jobResponse      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
