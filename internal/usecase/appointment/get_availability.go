package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/timezone"
)

type GetAvailability struct {
	repo            domain.Repository
	hours           domain.WorkingHours
	cache           domain.SlotCache
	now             timezone.Clock
	defaultDuration int
}

// NewGetAvailability builds the availability calculator. cache may be nil.
func NewGetAvailability(
	repo domain.Repository,
	hours domain.WorkingHours,
	cache domain.SlotCache,
	now timezone.Clock,
) *GetAvailability {
	return &GetAvailability{
		repo:            repo,
		hours:           hours,
		cache:           cache,
		now:             now,
		defaultDuration: domain.DefaultDurationMin,
	}
}

// WithDefaultDuration sets the duration used when a request omits one.
func (uc *GetAvailability) WithDefaultDuration(minutes int) *GetAvailability {
	if minutes > 0 {
		uc.defaultDuration = minutes
	}
	return uc
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.AvailabilityResult, error) {

	date := strings.TrimSpace(in.Date)
	if date == "" {
		return nil, httperr.ErrValidation("missing_date", "date is required.")
	}

	duration := in.DurationMin
	if duration == 0 {
		duration = uc.defaultDuration
	}
	if duration < 0 || duration > domain.MaxDurationMin {
		return nil, httperr.ErrValidation("invalid_duration", "duration_min must be between 1 and 1440.")
	}

	day, err := uc.hours.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "date must be formatted as YYYY-MM-DD.")
	}

	now := uc.now()
	result := &domain.AvailabilityResult{Date: date, DurationMin: duration}
	log := zerolog.Ctx(ctx)

	// --------------------------------------------------
	// Cache (read-only, short TTL)
	// --------------------------------------------------
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, date, duration)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("date", date).Msg("availability cache read failed")
		case ok:
			result.Slots = domain.FutureOnly(cached, now)
			return result, nil
		}
	}

	// --------------------------------------------------
	// Confirmed appointments touching the day
	// --------------------------------------------------
	dayStart, dayEnd := uc.hours.Day(day)

	booked, err := uc.repo.FindOverlapping(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(booked))
	for i := range booked {
		busy = append(busy, domain.IntervalOf(&booked[i]))
	}

	// --------------------------------------------------
	// Step grid inside working hours
	// --------------------------------------------------
	workStart, workEnd := uc.hours.Window(day)

	result.Slots = domain.FreeSlots(
		workStart,
		workEnd,
		time.Duration(duration)*time.Minute,
		uc.hours.Step(),
		busy,
		now,
	)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, date, duration, result.Slots); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("availability cache write failed")
		}
	}

	return result, nil
}
