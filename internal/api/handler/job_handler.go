package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// JobHandler handles HTTP requests for job operations.
type JobHandler struct {
	service  ports.JobService
	accounts ports.AuthService
}

func NewJobHandler(service ports.JobService, accounts ports.AuthService) *JobHandler {
	return &JobHandler{service: service, accounts: accounts}
}

func toJobResponse(j *domain.Job) jobResponse {
	resp := jobResponse{
		ID:             j.ID,
		CustomerID:     j.CustomerID,
		Title:          j.Title,
		Description:    j.Description,
		Status:         string(j.Status),
		ScheduledStart: j.ScheduledStart,
		ScheduledEnd:   j.ScheduledEnd,
		AssignedTo:     j.AssignedTo,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
	if j.Recurrence != nil {
		resp.RRule = j.Recurrence.RRule
	}
	return resp
}

// Create handles POST /v1/jobs.
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	job, err := h.service.CreateJob(c.Request().Context(), ports.CreateJobInput{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Schedule: ports.ScheduleInput{
			StartDate: req.Schedule.StartDate,
			StartTime: req.Schedule.StartTime,
			EndDate:   req.Schedule.EndDate,
			EndTime:   req.Schedule.EndTime,
			Timezone:  req.Schedule.Timezone,
		},
		RRule: req.RRule,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toJobResponse(job))
}

// Get handles GET /v1/jobs/:id. The optional ?tz= parameter selects the
// display zone for the form-field view, falling back to the caller's stored
// preference.
func (h *JobHandler) Get(c echo.Context) error {
	zone := queryZone(c)
	if zone == "" {
		zone = callerZone(c, h.accounts)
	}

	detail, err := h.service.GetJob(c.Request().Context(), c.Param("id"), zone)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, jobDetailResponse{
		jobResponse: toJobResponse(detail.Job),
		StartDate:   detail.StartDate,
		StartTime:   detail.StartTime,
		EndDate:     detail.EndDate,
		EndTime:     detail.EndTime,
		Timezone:    detail.Timezone,
	})
}

// Update handles PUT /v1/jobs/:id.
func (h *JobHandler) Update(c echo.Context) error {
	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	job, err := h.service.UpdateJob(c.Request().Context(), c.Param("id"), ports.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Schedule: ports.ScheduleInput{
			StartDate: req.Schedule.StartDate,
			StartTime: req.Schedule.StartTime,
			EndDate:   req.Schedule.EndDate,
			EndTime:   req.Schedule.EndTime,
			Timezone:  req.Schedule.Timezone,
		},
		RRule: req.RRule,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toJobResponse(job))
}

// Delete handles DELETE /v1/jobs/:id.
func (h *JobHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteJob(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Transition handles POST /v1/jobs/:id/transition.
func (h *JobHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	job, err := h.service.Transition(c.Request().Context(), c.Param("id"), domain.JobStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

// List handles GET /v1/jobs.
func (h *JobHandler) List(c echo.Context) error {
	filter, err := parseJobFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	page, err := h.service.ListJobs(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	data := make([]jobResponse, 0, len(page.Items))
	for _, j := range page.Items {
		data = append(data, toJobResponse(j))
	}

	return c.JSON(http.StatusOK, listJobsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}
