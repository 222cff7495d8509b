// Package schedule computes which appointment slots are actually free for a
// given day: a static working-hours template minus the calendar's busy starts.
package schedule

import "time"

// WorkingHours maps a day of the week to its candidate appointment start
// times. Days without an explicit entry fall back to Default. Immutable
// process-wide configuration.
type WorkingHours struct {
	ByWeekday map[time.Weekday][]string
	Default   []string
}

// SlotsFor returns the slot template for the given weekday.
func (w WorkingHours) SlotsFor(day time.Weekday) []string {
	if slots, ok := w.ByWeekday[day]; ok {
		return slots
	}
	return w.Default
}

// DefaultWorkingHours returns the clinic's standard template: reduced
// weekend hours, weekdays with a lunch break at 13:00.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		ByWeekday: map[time.Weekday][]string{
			time.Sunday: {
				"10:00", "11:00", "12:00", "13:00",
				"14:00", "15:00", "16:00", "17:00",
			},
			time.Saturday: {
				"09:00", "10:00", "11:00", "12:00",
				"13:00", "14:00", "15:00", "16:00",
			},
		},
		Default: []string{
			"08:00", "09:00", "10:00", "11:00", "12:00", "14:00",
			"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
		},
	}
}
