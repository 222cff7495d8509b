package dialogue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludtotal/agendabot/internal/booking"
	"github.com/saludtotal/agendabot/internal/bookings"
	"github.com/saludtotal/agendabot/internal/calendar"
)

type stubResolver struct {
	slots   map[string][]string
	queried []string
}

func (r *stubResolver) AvailableSlots(_ context.Context, date string) []string {
	r.queried = append(r.queried, date)
	return r.slots[date]
}

type stubWriter struct {
	requests []booking.Request
	result   *calendar.Event
}

func (w *stubWriter) Create(_ context.Context, req booking.Request) *calendar.Event {
	w.requests = append(w.requests, req)
	return w.result
}

type stubLog struct {
	records []bookings.Record
	err     error
}

func (l *stubLog) Record(_ context.Context, rec bookings.Record) error {
	l.records = append(l.records, rec)
	return l.err
}

func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	return loc
}

func newTestMenuFlow(t *testing.T, resolver *stubResolver, writer *stubWriter, log BookingLog) *MenuFlow {
	t.Helper()
	flow := NewMenuFlow(resolver, writer, log, santiago(t), nil, nil)
	flow.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, flow.loc)
	}
	return flow
}

func TestMenuFlowHappyPath(t *testing.T) {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	resolver := &stubResolver{slots: map[string][]string{
		"2026-09-10": {"08:00", "09:00", "10:00"},
	}}
	writer := &stubWriter{result: &calendar.Event{ID: "evt-1", Start: start}}
	log := &stubLog{}
	flow := newTestMenuFlow(t, resolver, writer, log)
	ctx := context.Background()

	session := &Session{}
	result := flow.Start(ctx, session, serviceOdontologia)
	assert.True(t, result.Advance)
	assert.Equal(t, StepAskName, session.Step)

	result = flow.Next(ctx, session, "Juan Pérez")
	require.True(t, result.Advance)
	assert.Equal(t, StepAskPhone, session.Step)

	result = flow.Next(ctx, session, "912345678")
	require.True(t, result.Advance)
	assert.Equal(t, StepAskEmail, session.Step)

	result = flow.Next(ctx, session, "no")
	require.True(t, result.Advance)
	assert.Equal(t, StepDate, session.Step)
	require.NotNil(t, result.Replies[0].List)

	result = flow.Next(ctx, session, "2026-09-10")
	require.True(t, result.Advance)
	assert.Equal(t, StepTime, session.Step)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, session.AvailableSlots)

	result = flow.Next(ctx, session, "09:00")
	require.True(t, result.Advance)
	assert.True(t, result.Clear)

	require.Len(t, writer.requests, 1)
	req := writer.requests[0]
	assert.Equal(t, "2026-09-10", req.Date)
	assert.Equal(t, "09:00", req.Time)
	assert.Equal(t, "Juan Pérez", req.Name)
	assert.Equal(t, "912345678", req.Phone)
	assert.Empty(t, req.Email)
	assert.Equal(t, serviceOdontologia, req.Service)

	require.Len(t, log.records, 1)
	assert.Equal(t, "evt-1", log.records[0].CalendarEventID)
	assert.Equal(t, start, log.records[0].ScheduledFor)

	assert.Contains(t, result.Replies[0].Text, "10/09")
	assert.Contains(t, result.Replies[0].Text, "09:00")
}

func TestMenuFlowEmailCaptured(t *testing.T) {
	flow := newTestMenuFlow(t, &stubResolver{}, &stubWriter{}, nil)
	session := &Session{Step: StepAskEmail}

	result := flow.Next(context.Background(), session, "juan@example.com")
	require.True(t, result.Advance)
	assert.Equal(t, "juan@example.com", session.PatientEmail)
}

func TestMenuFlowInvalidInputDoesNotAdvance(t *testing.T) {
	tests := []struct {
		name string
		step Step
		body string
		msg  string
	}{
		{"single word name", StepAskName, "Juan", msgInvalidFullName},
		{"short phone", StepAskPhone, "123", msgInvalidPhoneNumber},
		{"bad email", StepAskEmail, "not-an-email", msgInvalidEmail},
		{"free text date", StepDate, "mañana", msgInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := newTestMenuFlow(t, &stubResolver{}, &stubWriter{}, nil)
			session := &Session{Step: tt.step}

			result := flow.Next(context.Background(), session, tt.body)
			assert.False(t, result.Advance)
			assert.Equal(t, tt.step, session.Step)
			require.NotEmpty(t, result.Replies)
			assert.Equal(t, tt.msg, result.Replies[0].Text)
		})
	}
}

func TestMenuFlowTimeMustBeFromMenu(t *testing.T) {
	writer := &stubWriter{result: &calendar.Event{ID: "evt-1"}}
	flow := newTestMenuFlow(t, &stubResolver{}, writer, nil)
	session := &Session{
		Step:           StepTime,
		SelectedDate:   "2026-09-10",
		AvailableSlots: []string{"08:00", "09:00"},
	}

	for _, input := range []string{"14:00", "mañana", "25:00"} {
		result := flow.Next(context.Background(), session, input)
		assert.False(t, result.Advance, "input %q", input)
		assert.Equal(t, msgInvalidTime, result.Replies[0].Text, "input %q", input)
		assert.Equal(t, StepTime, session.Step)
	}
	assert.Empty(t, writer.requests)
}

func TestMenuFlowNoSlotsReoffersDateMenu(t *testing.T) {
	resolver := &stubResolver{slots: map[string][]string{}}
	flow := newTestMenuFlow(t, resolver, &stubWriter{}, nil)
	session := &Session{Step: StepDate, PatientName: "Juan Pérez"}

	result := flow.Next(context.Background(), session, "2026-09-10")
	assert.False(t, result.Advance)
	assert.Equal(t, StepDate, session.Step)
	require.Len(t, result.Replies, 2)
	assert.Equal(t, msgNoSlotsAvailable, result.Replies[0].Text)
	assert.NotNil(t, result.Replies[1].List)
}

func TestMenuFlowWriterFailureKeepsSessionAtTime(t *testing.T) {
	writer := &stubWriter{result: nil}
	flow := newTestMenuFlow(t, &stubResolver{}, writer, nil)
	session := &Session{
		Step:           StepTime,
		SelectedDate:   "2026-09-10",
		AvailableSlots: []string{"09:00"},
	}

	result := flow.Next(context.Background(), session, "09:00")
	assert.False(t, result.Advance)
	assert.False(t, result.Clear)
	assert.Equal(t, StepTime, session.Step)
	assert.Empty(t, session.SelectedTime)
	assert.Equal(t, msgAppointmentError, result.Replies[0].Text)
}

func TestMenuFlowDateChangeDropsStaleSlots(t *testing.T) {
	resolver := &stubResolver{slots: map[string][]string{
		"2026-09-10": {"08:00"},
		"2026-09-11": {"15:00"},
	}}
	flow := newTestMenuFlow(t, resolver, &stubWriter{}, nil)
	ctx := context.Background()
	session := &Session{Step: StepDate}

	flow.Next(ctx, session, "2026-09-10")
	session.Step = StepDate
	flow.Next(ctx, session, "2026-09-11")

	assert.Equal(t, "2026-09-11", session.SelectedDate)
	assert.Equal(t, []string{"15:00"}, session.AvailableSlots)
	assert.False(t, session.HasSlot("08:00"))
}

func TestMenuFlowDateMenuHasFourteenOptions(t *testing.T) {
	flow := newTestMenuFlow(t, &stubResolver{}, &stubWriter{}, nil)
	session := &Session{Step: StepAskEmail}

	result := flow.Next(context.Background(), session, "no")
	require.NotNil(t, result.Replies[0].List)
	rows := result.Replies[0].List.Sections[0].Rows
	require.Len(t, rows, 14)
	assert.Equal(t, "2026-09-02", rows[0].ID)
	assert.Equal(t, "2026-09-15", rows[13].ID)
}
