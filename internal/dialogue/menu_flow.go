package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saludtotal/agendabot/internal/booking"
	"github.com/saludtotal/agendabot/internal/bookings"
	"github.com/saludtotal/agendabot/internal/calendar"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/internal/schedule"
	"github.com/saludtotal/agendabot/internal/validate"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// SlotResolver computes free slots for a day.
type SlotResolver interface {
	AvailableSlots(ctx context.Context, date string) []string
}

// AppointmentWriter persists a validated booking; nil signals failure.
type AppointmentWriter interface {
	Create(ctx context.Context, req booking.Request) *calendar.Event
}

// BookingLog records completed bookings for later review. Failures here are
// logged and swallowed; the calendar write already succeeded.
type BookingLog interface {
	Record(ctx context.Context, rec bookings.Record) error
}

// MenuFlow is the deterministic booking strategy: every date and time is
// picked from a generated menu, never free text.
type MenuFlow struct {
	resolver SlotResolver
	writer   AppointmentWriter
	log      BookingLog
	loc      *time.Location
	now      func() time.Time
	logger   *logging.Logger
	metrics  *metrics.BotMetrics
}

// NewMenuFlow wires the menu-driven strategy. log may be nil.
func NewMenuFlow(resolver SlotResolver, writer AppointmentWriter, log BookingLog, loc *time.Location, logger *logging.Logger, m *metrics.BotMetrics) *MenuFlow {
	if resolver == nil {
		panic("dialogue: slot resolver cannot be nil")
	}
	if writer == nil {
		panic("dialogue: appointment writer cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MenuFlow{
		resolver: resolver,
		writer:   writer,
		log:      log,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
		metrics:  m,
	}
}

// Start begins the capture sequence for a chosen service.
func (f *MenuFlow) Start(ctx context.Context, s *Session, service string) StepResult {
	s.Service = service
	s.Step = StepAskName
	return StepResult{Advance: true, Replies: []Reply{
		TextReply(fmt.Sprintf("Perfecto, vamos a agendar tu cita para *%s*.", service)),
		TextReply(msgAskFullName),
	}}
}

// Next consumes one user message for the current step. Invalid input never
// advances: the same prompt is repeated with an explanation.
func (f *MenuFlow) Next(ctx context.Context, s *Session, body string) StepResult {
	switch s.Step {
	case StepAskName:
		return f.captureName(s, body)
	case StepAskPhone:
		return f.capturePhone(s, body)
	case StepAskEmail:
		return f.captureEmail(s, body)
	case StepDate:
		return f.selectDate(ctx, s, body)
	case StepTime:
		return f.selectTime(ctx, s, body)
	default:
		f.logger.Warn("menu flow received unknown step", "step", s.Step)
		s.Step = StepIdle
		return StepResult{Replies: []Reply{TextReply(msgDefault)}}
	}
}

func (f *MenuFlow) captureName(s *Session, body string) StepResult {
	if !validate.FullName(body) {
		return StepResult{Replies: []Reply{TextReply(msgInvalidFullName)}}
	}
	s.PatientName = strings.TrimSpace(body)
	s.Step = StepAskPhone
	return StepResult{Advance: true, Replies: []Reply{TextReply(msgAskPhoneNumber)}}
}

func (f *MenuFlow) capturePhone(s *Session, body string) StepResult {
	if !validate.PhoneNumber(body) {
		return StepResult{Replies: []Reply{TextReply(msgInvalidPhoneNumber)}}
	}
	s.PatientPhone = strings.TrimSpace(body)
	s.Step = StepAskEmail
	return StepResult{Advance: true, Replies: []Reply{TextReply(msgAskEmail)}}
}

func (f *MenuFlow) captureEmail(s *Session, body string) StepResult {
	answer := strings.ToLower(strings.TrimSpace(body))
	if answer != "no" && !validate.Email(answer) {
		return StepResult{Replies: []Reply{TextReply(msgInvalidEmail)}}
	}
	if answer != "no" {
		s.PatientEmail = strings.TrimSpace(body)
	}
	s.Step = StepDate
	return StepResult{Advance: true, Replies: []Reply{f.dateMenu()}}
}

func (f *MenuFlow) selectDate(ctx context.Context, s *Session, body string) StepResult {
	date := strings.TrimSpace(body)
	if !validate.ISODate(date) {
		return StepResult{Replies: []Reply{TextReply(msgInvalidDate)}}
	}

	slots := f.resolver.AvailableSlots(ctx, date)
	if len(slots) == 0 {
		f.metrics.ObserveSlotQuery("empty")
		return StepResult{Replies: []Reply{TextReply(msgNoSlotsAvailable), f.dateMenu()}}
	}
	f.metrics.ObserveSlotQuery("ok")

	s.SetDate(date, slots)
	s.Step = StepTime
	return StepResult{Advance: true, Replies: []Reply{timeMenu(date, slots)}}
}

func (f *MenuFlow) selectTime(ctx context.Context, s *Session, body string) StepResult {
	selected := strings.TrimSpace(body)
	if !validate.TimeOfDay(selected) || !s.HasSlot(selected) {
		return StepResult{Replies: []Reply{TextReply(msgInvalidTime)}}
	}
	s.SelectedTime = selected

	created := f.writer.Create(ctx, booking.Request{
		Date:    s.SelectedDate,
		Time:    s.SelectedTime,
		Name:    s.PatientName,
		Phone:   s.PatientPhone,
		Email:   s.PatientEmail,
		Service: s.Service,
	})
	if created == nil {
		f.metrics.ObserveBooking("failed")
		// Keep the user at time selection so they can retry.
		s.SelectedTime = ""
		return StepResult{Replies: []Reply{TextReply(msgAppointmentError)}}
	}
	f.metrics.ObserveBooking("created")
	f.recordBooking(ctx, s, created)

	confirmed := strings.NewReplacer(
		"{date}", schedule.ShortDate(s.SelectedDate),
		"{time}", s.SelectedTime,
	).Replace(msgAppointmentConfirmed)

	return StepResult{
		Advance: true,
		Clear:   true,
		Replies: []Reply{
			TextReply(confirmed),
			{
				Text: msgNeedMore,
				Buttons: []Button{
					{Body: "📅 Agendar otra cita"},
					{Body: "❌ No, gracias"},
				},
			},
		},
	}
}

func (f *MenuFlow) recordBooking(ctx context.Context, s *Session, created *calendar.Event) {
	if f.log == nil {
		return
	}
	err := f.log.Record(ctx, bookings.Record{
		PatientName:     s.PatientName,
		PatientPhone:    s.PatientPhone,
		PatientEmail:    s.PatientEmail,
		Service:         s.Service,
		ScheduledFor:    created.Start,
		CalendarEventID: created.ID,
	})
	if err != nil {
		f.logger.Error("failed to record booking", "error", err)
	}
}

func (f *MenuFlow) dateMenu() Reply {
	options := schedule.UpcomingDates(f.now().In(f.loc))
	rows := make([]ListRow, 0, len(options))
	for _, opt := range options {
		rows = append(rows, ListRow{
			ID:    opt.ISO,
			Title: "📅 " + opt.Display,
		})
	}
	return Reply{List: &ListMenu{
		Header:     "Fechas Disponibles",
		Body:       msgSelectDate,
		ButtonText: "Ver Fechas",
		Sections:   []ListSection{{Title: "Fechas", Rows: rows}},
	}}
}

func timeMenu(date string, slots []string) Reply {
	rows := make([]ListRow, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, ListRow{
			ID:    slot,
			Title: "⏰ " + slot,
		})
	}
	return Reply{List: &ListMenu{
		Header:     "Horarios Disponibles",
		Body:       fmt.Sprintf("Horarios para el %s", schedule.ShortDate(date)),
		ButtonText: "Ver Horarios",
		Sections:   []ListSection{{Title: "Turnos", Rows: rows}},
	}}
}
