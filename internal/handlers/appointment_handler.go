package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/dto"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/assistant-calendar/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	get          *ucAppointment.GetAppointment
	cancel       *ucAppointment.CancelAppointment
	list         *ucAppointment.ListAppointments
	export       *ucAppointment.ExportCalendar
	loc          *time.Location
}

func NewAppointmentHandler(
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	get *ucAppointment.GetAppointment,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListAppointments,
	export *ucAppointment.ExportCalendar,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		get:          get,
		cancel:       cancel,
		list:         list,
		export:       export,
		loc:          loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	StartTime    string `json:"start_time"`
	DurationMin  int    `json:"duration_min"`
	Notes        string `json:"notes"`
}

type CancelAppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	raw := c.Query("duration_min")
	if raw == "" {
		raw = c.Query("durationMin")
	}

	duration := 0
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperr.BadRequest(c, "invalid_duration", "duration_min must be a positive integer.")
			return
		}
		duration = n
	}

	result, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		Date:        c.Query("date"),
		DurationMin: duration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, result)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request body must be valid JSON.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		StartTime:    req.StartTime,
		DurationMin:  req.DurationMin,
		Notes:        req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":         ap.Status,
		"appointment_id": ap.ID,
		"appointment":    dto.FromAppointment(ap, h.loc),
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, err := h.list.Execute(
		c.Request.Context(),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"appointments": appointments})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

// Cancel reads the id from the JSON body. An empty body is reported as a
// missing id.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Request body must be valid JSON.")
		return
	}
	h.doCancel(c, req.AppointmentID)
}

// CancelByID reads the id from the path.
func (h *AppointmentHandler) CancelByID(c *gin.Context) {
	h.doCancel(c, c.Param("id"))
}

func (h *AppointmentHandler) doCancel(c *gin.Context, id string) {
	ap, err := h.cancel.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"status":         ap.Status,
		"appointment_id": ap.ID,
		"appointment":    dto.FromAppointment(ap, h.loc),
	})
}

// ======================================================
// EXPORT
// ======================================================

func (h *AppointmentHandler) ExportICS(c *gin.Context) {
	body, err := h.export.Execute(
		c.Request.Context(),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="appointments.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
