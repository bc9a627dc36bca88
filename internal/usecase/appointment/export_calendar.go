package appointment

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
	"github.com/BruksfildServices01/assistant-calendar/internal/timezone"
)

const (
	productID = "-//assistant-calendar//EN"

	exportLookBehind = 30 * 24 * time.Hour
	exportLookAhead  = 90 * 24 * time.Hour
)

type ExportCalendar struct {
	repo  domain.Repository
	hours domain.WorkingHours
	now   timezone.Clock
}

func NewExportCalendar(
	repo domain.Repository,
	hours domain.WorkingHours,
	now timezone.Clock,
) *ExportCalendar {
	return &ExportCalendar{
		repo:  repo,
		hours: hours,
		now:   now,
	}
}

// Execute renders the confirmed appointments starting in [from, to] as an
// iCalendar feed. Empty bounds default to 30 days back and 90 days ahead.
func (uc *ExportCalendar) Execute(
	ctx context.Context,
	from string,
	to string,
) ([]byte, error) {

	loc := uc.hours.Location()
	now := uc.now()

	start := now.Add(-exportLookBehind)
	end := now.Add(exportLookAhead)

	if strings.TrimSpace(from) != "" {
		t, err := parseBound(from, loc, false)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_from", "from must be an ISO 8601 timestamp or date.")
		}
		start = t
	}
	if strings.TrimSpace(to) != "" {
		t, err := parseBound(to, loc, true)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_to", "to must be an ISO 8601 timestamp or date.")
		}
		end = t
	}
	if end.Before(start) {
		return nil, httperr.ErrValidation("invalid_range", "to must not be before from.")
	}

	appointments, err := uc.repo.ListAppointments(ctx, start, end)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for i := range appointments {
		ap := &appointments[i]
		if domain.Status(ap.Status) != domain.StatusConfirmed {
			continue
		}
		cal.Children = append(cal.Children, toEvent(ap, now).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func toEvent(ap *models.Appointment, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, ap.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, ap.StartTime.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, ap.EndTime.UTC())
	event.Props.SetText(ical.PropSummary, "Appointment: "+ap.CustomerName)
	event.Props.SetText(ical.PropStatus, "CONFIRMED")

	var desc []string
	if ap.Phone != "" {
		desc = append(desc, "Phone: "+ap.Phone)
	}
	if ap.Notes != "" {
		desc = append(desc, ap.Notes)
	}
	if len(desc) > 0 {
		event.Props.SetText(ical.PropDescription, strings.Join(desc, "\n"))
	}
	return event
}
