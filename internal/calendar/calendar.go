// Package calendar defines the narrow contract the bot has with the clinic's
// shared calendar, plus the Google Calendar implementation of it.
package calendar

import (
	"context"
	"time"
)

// Event is the bot's view of a calendar event. Only the fields the booking
// flow reads or writes are modeled.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	Attendees   []string
	Reminders   []Reminder
}

// Reminder is a notification attached to an event.
type Reminder struct {
	Method  string // "email" or "popup"
	Minutes int64
}

// Client is implemented by calendar providers. ListEvents returns events
// whose start falls inside [timeMin, timeMax), ordered by start time.
type Client interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	InsertEvent(ctx context.Context, event Event) (*Event, error)
}
