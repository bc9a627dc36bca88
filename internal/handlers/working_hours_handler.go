package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
)

// WorkingHoursHandler exposes the configured booking window. The window is
// global and read-only at runtime.
type WorkingHoursHandler struct {
	hours       domain.WorkingHours
	enforced    bool
	defaultSpan int
}

func NewWorkingHoursHandler(hours domain.WorkingHours, enforced bool, defaultDurationMin int) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		hours:       hours,
		enforced:    enforced,
		defaultSpan: defaultDurationMin,
	}
}

type WorkingHoursResponse struct {
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	SlotStepMin        int    `json:"slot_step_min"`
	DefaultDurationMin int    `json:"default_duration_min"`
	Timezone           string `json:"timezone"`
	Enforced           bool   `json:"enforced"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, WorkingHoursResponse{
		StartTime:          h.hours.Start(),
		EndTime:            h.hours.End(),
		SlotStepMin:        int(h.hours.Step().Minutes()),
		DefaultDurationMin: h.defaultSpan,
		Timezone:           h.hours.Location().String(),
		Enforced:           h.enforced,
	})
}
