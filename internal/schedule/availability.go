package schedule

import (
	"context"
	"time"

	"github.com/saludtotal/agendabot/internal/calendar"
	"github.com/saludtotal/agendabot/internal/validate"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// BusyLister is the slice of the calendar contract the resolver needs.
type BusyLister interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error)
}

// Resolver derives free appointment slots for a day by subtracting the
// calendar's busy start times from the working-hours template.
type Resolver struct {
	cal    BusyLister
	hours  WorkingHours
	loc    *time.Location
	logger *logging.Logger
}

// NewResolver wires a resolver to its calendar, template and clinic timezone.
func NewResolver(cal BusyLister, hours WorkingHours, loc *time.Location, logger *logging.Logger) *Resolver {
	if cal == nil {
		panic("schedule: calendar client cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		cal:    cal,
		hours:  hours,
		loc:    loc,
		logger: logger,
	}
}

// AvailableSlots returns the free HH:mm slots for the given ISO date.
// Every failure degrades to an empty slice: the dialogue treats empty as
// "no availability", never as a fault.
//
// A slot is excluded only when a busy event starts exactly on it. An event
// starting at 14:10 does not block the 14:00 slot, and a two-hour block
// removes only its own start label; this mirrors the clinic's established
// booking behavior.
func (r *Resolver) AvailableSlots(ctx context.Context, date string) []string {
	if !validate.ISODate(date) {
		r.logger.Error("invalid date for availability lookup", "date", date)
		return []string{}
	}

	dayStart, err := time.ParseInLocation(validate.ISODateLayout, date, r.loc)
	if err != nil {
		r.logger.Error("failed to parse availability date", "date", date, "error", err)
		return []string{}
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := r.cal.ListEvents(ctx, dayStart, dayEnd)
	if err != nil {
		r.logger.Error("failed to list calendar events", "date", date, "error", err)
		return []string{}
	}

	busy := make(map[string]struct{}, len(events))
	for _, event := range events {
		busy[event.Start.In(r.loc).Format("15:04")] = struct{}{}
	}

	template := r.hours.SlotsFor(dayStart.Weekday())
	free := make([]string, 0, len(template))
	for _, slot := range template {
		if _, taken := busy[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free
}
