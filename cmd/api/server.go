package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/assistant-calendar/internal/audit"
	"github.com/BruksfildServices01/assistant-calendar/internal/config"
	dbpkg "github.com/BruksfildServices01/assistant-calendar/internal/db"
	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/handlers"
	"github.com/BruksfildServices01/assistant-calendar/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/assistant-calendar/internal/infra/repository"
	"github.com/BruksfildServices01/assistant-calendar/internal/logging"
	"github.com/BruksfildServices01/assistant-calendar/internal/middleware"
	"github.com/BruksfildServices01/assistant-calendar/internal/routes"
	"github.com/BruksfildServices01/assistant-calendar/internal/telemetry"
	"github.com/BruksfildServices01/assistant-calendar/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/assistant-calendar/internal/usecase/appointment"
)

const shutdownTimeout = 10 * time.Second

func runServer() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// TELEMETRY
	// ======================================================
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  telemetry.ServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	// ======================================================
	// CALENDAR
	// ======================================================
	if !timezone.IsValid(cfg.Timezone) {
		logger.Warn().Str("timezone", cfg.Timezone).Msg("unknown timezone, falling back to default")
	}
	loc := timezone.Location(cfg.Timezone)

	hours, err := domain.NewWorkingHours(cfg.WorkStart, cfg.WorkEnd, cfg.SlotStep(), loc)
	if err != nil {
		return fmt.Errorf("working hours: %w", err)
	}
	clock := timezone.SystemClock(loc)

	// ======================================================
	// INFRA
	// ======================================================
	checks := map[string]handlers.Check{}
	sinks := []audit.Sink{}

	var (
		repo      domain.Repository
		auditLogs *handlers.AuditLogsHandler
	)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		if err := dbpkg.Migrate(ctx, db); err != nil {
			return err
		}
		repo = infraRepo.NewAppointmentGormRepository(db, cfg.BookingMaxRetries)
		sinks = append(sinks, audit.New(db))
		auditLogs = handlers.NewAuditLogsHandler(db)
		checks["database"] = dbpkg.ReadyCheck(db)

	default:
		logger.Warn().Msg("using the in-memory store, appointments are lost on restart")
		repo = infraRepo.NewAppointmentMemoryRepository()
		sinks = append(sinks, audit.NewLogSink(logger))
	}

	var slotCache domain.SlotCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		slotCache = cache.NewAvailabilityRedisCache(rdb, cfg.AvailabilityCacheTTL, "calendar:availability")
		checks["redis"] = cache.ReadyCheck(rdb)
	}

	if brokers := audit.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		publisher := audit.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	dispatcher := audit.NewDispatcher(logger, 256, sinks...)

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(
		repo,
		hours,
		slotCache,
		clock,
	).WithDefaultDuration(cfg.DefaultDurationMin)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		repo,
		hours,
		ucAppointment.BookingPolicy{EnforceWorkingHours: cfg.EnforceWorkingHours},
		slotCache,
		dispatcher,
		clock,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		repo,
		hours,
		slotCache,
		dispatcher,
		clock,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(repo, hours)
	listAppointmentsUC := ucAppointment.NewListAppointments(repo, hours)
	exportCalendarUC := ucAppointment.NewExportCalendar(repo, hours, clock)

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	routes.RegisterRoutes(r, routes.Dependencies{
		Appointments: handlers.NewAppointmentHandler(
			getAvailabilityUC,
			createAppointmentUC,
			getAppointmentUC,
			cancelAppointmentUC,
			listAppointmentsUC,
			exportCalendarUC,
			loc,
		),
		WorkingHours: handlers.NewWorkingHoursHandler(hours, cfg.EnforceWorkingHours, cfg.DefaultDurationMin),
		AuditLogs:    auditLogs,
		Health:       handlers.NewHealthHandler(checks),
		JWTSecret:    cfg.JWTSecret,
	})

	if cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET not set, the API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, telemetry.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("store", cfg.StoreDriver).
			Str("timezone", loc.String()).
			Msg("server running")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("audit drain incomplete")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown failed")
	}
	return nil
}
