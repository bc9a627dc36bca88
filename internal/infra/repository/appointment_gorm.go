package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

// calendarLockKey serialises writers on the shared calendar through
// pg_advisory_xact_lock. The exclusion constraint stays the last word.
const calendarLockKey int64 = 0x63616c656e646172

const DefaultMaxRetries = 3

// insertTxOptions runs the overlap check and insert as SERIALIZABLE, so a
// concurrent cancel or a writer that bypasses the advisory lock surfaces as
// 40001 and goes through the retry loop.
var insertTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

type AppointmentGormRepository struct {
	db         *gorm.DB
	maxRetries int
	tracer     trace.Tracer
}

func NewAppointmentGormRepository(db *gorm.DB, maxRetries int) *AppointmentGormRepository {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &AppointmentGormRepository{
		db:         db,
		maxRetries: maxRetries,
		tracer:     otel.Tracer("assistant-calendar/repository"),
	}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	ctx, span := r.tracer.Start(ctx, "appointments.list")
	defer span.End()

	apps := []models.Appointment{}
	if err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, failSpan(span, httperr.ErrStorage("list appointments", err))
	}

	span.SetAttributes(attribute.Int("appointments.count", len(apps)))
	return apps, nil
}

func (r *AppointmentGormRepository) FindOverlapping(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	ctx, span := r.tracer.Start(ctx, "appointments.find_overlapping")
	defer span.End()

	apps := []models.Appointment{}
	if err := r.db.WithContext(ctx).
		Where(
			"status = ? AND start_time < ? AND end_time > ?",
			string(domain.StatusConfirmed), end, start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, failSpan(span, httperr.ErrStorage("find overlapping", err))
	}

	return apps, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	ctx, span := r.tracer.Start(ctx, "appointments.get")
	defer span.End()

	var ap models.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, failSpan(span, httperr.ErrStorage("get appointment", err))
	}
	return &ap, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *AppointmentGormRepository) InsertIfNoOverlap(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ctx, span := r.tracer.Start(ctx, "appointments.insert_if_no_overlap")
	defer span.End()

	var err error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		span.SetAttributes(attribute.Int("db.attempt", attempt))

		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", calendarLockKey).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.
				Model(&models.Appointment{}).
				Where(
					"status = ? AND start_time < ? AND end_time > ?",
					string(domain.StatusConfirmed), ap.EndTime, ap.StartTime,
				).
				Count(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				return domain.ErrSlotTaken
			}

			return tx.Create(ap).Error
		}, insertTxOptions)

		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrSlotTaken) || httperr.IsExclusionConflict(err) {
			span.SetAttributes(attribute.Bool("appointments.conflict", true))
			return domain.ErrSlotTaken
		}
		if !httperr.IsRetryable(err) {
			break
		}
	}

	return failSpan(span, httperr.ErrStorage("insert appointment", err))
}

func (r *AppointmentGormRepository) Cancel(
	ctx context.Context,
	id string,
	now time.Time,
) (*models.Appointment, bool, error) {

	ctx, span := r.tracer.Start(ctx, "appointments.cancel")
	defer span.End()

	var (
		ap      models.Appointment
		changed bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&ap).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var err error
		changed, err = domain.Cancel(&ap, now)
		if err != nil || !changed {
			return err
		}

		return tx.
			Model(&models.Appointment{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       ap.Status,
				"cancelled_at": ap.CancelledAt,
				"updated_at":   ap.UpdatedAt,
			}).Error
	})

	if err != nil {
		if httperr.KindOf(err) != "" {
			return nil, false, err
		}
		return nil, false, failSpan(span, httperr.ErrStorage("cancel appointment", err))
	}

	span.SetAttributes(attribute.Bool("appointments.changed", changed))
	return &ap, changed, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
