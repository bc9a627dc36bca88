package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/assistant-calendar/internal/handlers"
	"github.com/BruksfildServices01/assistant-calendar/internal/middleware"
)

// Dependencies are the handlers the router mounts. AuditLogs may be nil
// when no database backs the audit trail; JWTSecret empty disables auth.
type Dependencies struct {
	Appointments *handlers.AppointmentHandler
	WorkingHours *handlers.WorkingHoursHandler
	AuditLogs    *handlers.AuditLogsHandler
	Health       *handlers.HealthHandler

	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {

	// ======================================================
	// PROBES
	// ======================================================
	r.GET("/health", deps.Health.Live)
	r.GET("/ready", deps.Health.Ready)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(middleware.AuthMiddleware(deps.JWTSecret))
	}

	calendar := api.Group("/calendar")
	{
		calendar.GET("/availability", deps.Appointments.Availability)
		calendar.GET("/working-hours", deps.WorkingHours.Get)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		calendar.POST("/appointments", deps.Appointments.Create)
		calendar.GET("/appointments", deps.Appointments.List)
		calendar.GET("/appointments.ics", deps.Appointments.ExportICS)
		calendar.GET("/appointments/:id", deps.Appointments.Get)
		calendar.PATCH("/appointments/:id/cancel", deps.Appointments.CancelByID)
		calendar.POST("/cancel", deps.Appointments.Cancel)

		if deps.AuditLogs != nil {
			calendar.GET("/audit-logs", deps.AuditLogs.List)
		}
	}
}
