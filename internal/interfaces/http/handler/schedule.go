package handler

import (
	"github.com/gin-gonic/gin"

	scheduleapp "github.com/muhohoweb/shoe-app/internal/application/schedule"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// ScheduleHandler handles purge schedule management endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *scheduleapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *scheduleapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Upsert creates a schedule or reconfigures the one registered for
// the same email
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	var req scheduleapp.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	schedule, err := h.scheduleService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// List returns all schedules with their computed next run times
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.scheduleService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedules)
}

// Toggle flips a schedule between active and paused
func (h *ScheduleHandler) Toggle(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	schedule, err := h.scheduleService.Toggle(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// Delete removes a schedule
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Trigger runs the purge immediately, outside any schedule
func (h *ScheduleHandler) Trigger(c *gin.Context) {
	report, err := h.scheduleService.TriggerNow(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
