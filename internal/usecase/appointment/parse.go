package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
)

var errUnparsable = errors.New("unrecognised timestamp")

// Timestamps without an offset are read in the reference timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparsable
}

// parseBound accepts a timestamp or a bare date. A bare date used as an
// upper bound covers the whole day.
func parseBound(raw string, loc *time.Location, upper bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if d, err := time.ParseInLocation(domain.DateLayout, raw, loc); err == nil {
		if upper {
			return d.AddDate(0, 0, 1).Add(-time.Microsecond), nil
		}
		return d, nil
	}
	return parseTimestamp(raw, loc)
}

// invalidateDays drops cached availability for every day [start, end) touches.
// Cache failures only cost freshness, so they are logged and swallowed.
func invalidateDays(
	ctx context.Context,
	cache domain.SlotCache,
	hours domain.WorkingHours,
	start time.Time,
	end time.Time,
) {
	if cache == nil {
		return
	}
	days := domain.DaysTouched(start, end, hours.Location())
	if err := cache.Invalidate(ctx, days...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Strs("days", days).Msg("availability cache invalidation failed")
	}
}
