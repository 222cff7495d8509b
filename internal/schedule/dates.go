package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/saludtotal/agendabot/internal/validate"
)

// DateOption is one row of the date-picker menu: the machine-readable ISO
// date plus a user-facing Spanish label.
type DateOption struct {
	ISO     string // 2006-01-02
	Display string // "lunes 02/01"
}

// menuDays is how far ahead the date picker reaches.
const menuDays = 14

var spanishWeekdays = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

// UpcomingDates generates the offerable dates, tomorrow through
// now+14 days, freshly computed on every call.
func UpcomingDates(now time.Time) []DateOption {
	options := make([]DateOption, 0, menuDays)
	for i := 1; i <= menuDays; i++ {
		day := now.AddDate(0, 0, i)
		options = append(options, DateOption{
			ISO:     day.Format(validate.ISODateLayout),
			Display: DisplayLabel(day),
		})
	}
	return options
}

// DisplayLabel renders a date the way the menu shows it: "lunes 02/01".
func DisplayLabel(t time.Time) string {
	return fmt.Sprintf("%s %s", spanishWeekdays[t.Weekday()], t.Format("02/01"))
}

// ShortDate renders an ISO date as DD/MM for confirmation messages.
// Invalid input is returned unchanged; callers validate first.
func ShortDate(iso string) string {
	t, err := time.Parse(validate.ISODateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01")
}

// ParseDisplayLabel maps a menu label back to its ISO date, resolving the
// year against ref: the label names the first matching day on or after ref.
func ParseDisplayLabel(label string, ref time.Time) (string, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "", fmt.Errorf("schedule: empty display label")
	}
	dayMonth := fields[len(fields)-1]
	parsed, err := time.Parse("02/01", dayMonth)
	if err != nil {
		return "", fmt.Errorf("schedule: bad display label %q: %w", label, err)
	}
	candidate := time.Date(ref.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, ref.Location())
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	if candidate.Before(refDay) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate.Format(validate.ISODateLayout), nil
}
