// Package booking turns a fully-captured booking into a calendar event.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/saludtotal/agendabot/internal/calendar"
	"github.com/saludtotal/agendabot/internal/validate"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// Request carries the validated fields of one appointment.
type Request struct {
	Date    string // 2006-01-02
	Time    string // 15:04
	Name    string
	Phone   string
	Email   string // empty when the patient declined reminders
	Service string
}

// Writer persists appointments on the clinic calendar with a fixed duration
// and reminder policy.
type Writer struct {
	cal      calendar.Client
	loc      *time.Location
	duration time.Duration
	logger   *logging.Logger
}

// NewWriter builds a Writer. duration <= 0 falls back to one hour.
func NewWriter(cal calendar.Client, loc *time.Location, duration time.Duration, logger *logging.Logger) *Writer {
	if cal == nil {
		panic("booking: calendar client cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if duration <= 0 {
		duration = time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Writer{
		cal:      cal,
		loc:      loc,
		duration: duration,
		logger:   logger,
	}
}

// Create builds and inserts the appointment event. It returns nil on any
// failure so the dialogue can offer a retry instead of surfacing a fault.
func (w *Writer) Create(ctx context.Context, req Request) *calendar.Event {
	start, err := time.ParseInLocation(validate.ISODateLayout+" 15:04", req.Date+" "+req.Time, w.loc)
	if err != nil {
		w.logger.Error("failed to parse appointment start",
			"date", req.Date, "time", req.Time, "error", err)
		return nil
	}

	event := calendar.Event{
		Summary: fmt.Sprintf("Cita %s - %s", req.Service, req.Name),
		Description: fmt.Sprintf("Paciente: %s\nTeléfono: %s\nServicio: %s",
			req.Name, req.Phone, req.Service),
		Start:    start,
		End:      start.Add(w.duration),
		Timezone: w.loc.String(),
		Reminders: []calendar.Reminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 60},
		},
	}
	if req.Email != "" {
		event.Attendees = []string{req.Email}
	}

	created, err := w.cal.InsertEvent(ctx, event)
	if err != nil {
		w.logger.Error("failed to create appointment",
			"date", req.Date, "time", req.Time, "service", req.Service, "error", err)
		return nil
	}
	return created
}
