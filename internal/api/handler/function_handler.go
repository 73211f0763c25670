package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/api/metrics"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// Function names callable through POST /v1/functions/:name.
const (
	FnExtendHorizon         = "extend-horizon"
	FnRegenerateOccurrences = "regenerate-occurrences"
)

// FunctionHandler exposes named service operations through an RPC-style
// invocation channel. Responses are {data, error} envelopes: error is a
// string when the invocation failed, null otherwise.
type FunctionHandler struct {
	schedule ports.ScheduleService
}

func NewFunctionHandler(schedule ports.ScheduleService) *FunctionHandler {
	return &FunctionHandler{schedule: schedule}
}

type functionEnvelope struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

type regenerateRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

func envelopeError(msg string) functionEnvelope {
	return functionEnvelope{Error: &msg}
}

// Invoke handles POST /v1/functions/:name.
func (h *FunctionHandler) Invoke(c echo.Context) error {
	name := c.Param("name")

	switch name {
	case FnExtendHorizon:
		result, err := h.schedule.ExtendHorizon(c.Request().Context())
		if err != nil {
			metrics.FunctionInvocationsTotal.WithLabelValues(name, "error").Inc()
			return c.JSON(http.StatusInternalServerError, envelopeError(err.Error()))
		}
		metrics.FunctionInvocationsTotal.WithLabelValues(name, "ok").Inc()
		return c.JSON(http.StatusOK, functionEnvelope{Data: map[string]any{
			"jobs_extended":     result.JobsExtended,
			"occurrences_added": result.OccurrencesAdded,
			"new_horizon":       result.NewHorizon,
		}})

	case FnRegenerateOccurrences:
		var req regenerateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, envelopeError("invalid payload"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, envelopeError(err.Error()))
		}
		if err := h.schedule.Regenerate(c.Request().Context(), ports.RegenerateInput{JobID: req.JobID}); err != nil {
			metrics.FunctionInvocationsTotal.WithLabelValues(name, "error").Inc()
			return err
		}
		metrics.FunctionInvocationsTotal.WithLabelValues(name, "ok").Inc()
		return c.JSON(http.StatusOK, functionEnvelope{Data: map[string]string{"job_id": req.JobID}})

	default:
		return c.JSON(http.StatusNotFound, envelopeError("unknown function: "+name))
	}
}
