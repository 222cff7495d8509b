package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleClient talks to a single Google Calendar identified by calendarID.
type GoogleClient struct {
	service    *gcal.Service
	calendarID string
}

// NewGoogleClient builds a Calendar API client from service-account JSON
// credentials bound to one calendar.
func NewGoogleClient(ctx context.Context, credentialsJSON, calendarID string) (*GoogleClient, error) {
	if strings.TrimSpace(calendarID) == "" {
		return nil, errors.New("calendar: calendar id is required")
	}
	if strings.TrimSpace(credentialsJSON) == "" {
		return nil, errors.New("calendar: credentials are required")
	}

	service, err := gcal.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create google client: %w", err)
	}

	return &GoogleClient{
		service:    service,
		calendarID: calendarID,
	}, nil
}

// ListEvents returns the single events starting in [timeMin, timeMax),
// ordered by start time.
func (c *GoogleClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	call := c.service.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		start, ok := parseEventTime(item.Start)
		if !ok {
			// All-day events carry only a date; they don't block hourly slots.
			continue
		}
		end, _ := parseEventTime(item.End)
		events = append(events, Event{
			ID:      item.Id,
			Summary: item.Summary,
			Start:   start,
			End:     end,
		})
	}
	return events, nil
}

// InsertEvent creates the event and returns the stored copy with its ID.
func (c *GoogleClient) InsertEvent(ctx context.Context, event Event) (*Event, error) {
	payload := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.Timezone,
		},
	}
	for _, email := range event.Attendees {
		payload.Attendees = append(payload.Attendees, &gcal.EventAttendee{Email: email})
	}
	if len(event.Reminders) > 0 {
		overrides := make([]*gcal.EventReminder, 0, len(event.Reminders))
		for _, r := range event.Reminders {
			overrides = append(overrides, &gcal.EventReminder{
				Method:  r.Method,
				Minutes: r.Minutes,
			})
		}
		payload.Reminders = &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	created, err := c.service.Events.Insert(c.calendarID, payload).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}

	stored := event
	stored.ID = created.Id
	return &stored, nil
}

func parseEventTime(edt *gcal.EventDateTime) (time.Time, bool) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, edt.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
