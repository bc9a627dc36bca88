package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes audit events to the process log. It is the fallback trail
// when no database is configured.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Write(_ context.Context, ev Event) error {
	s.logger.Info().
		Str("event_id", ev.ID).
		Str("action", ev.Action).
		Str("entity", ev.Entity).
		Str("entity_id", ev.EntityID).
		Interface("metadata", ev.Metadata).
		Time("occurred_at", ev.OccurredAt).
		Msg("audit")
	return nil
}

var _ Sink = (*LogSink)(nil)
