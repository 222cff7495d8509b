// Package validate holds the pure input checks used by the booking dialogue.
// Every function is total: bad input yields false, never an error or panic.
package validate

import (
	"regexp"
	"strings"
	"time"
)

var (
	phonePattern        = regexp.MustCompile(`^\+?[0-9]{8,12}$`)
	chileanPhonePattern = regexp.MustCompile(`^(\+56)?9\d{8}$`)
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits           = regexp.MustCompile(`[^\d+]`)
)

// ISODateLayout is the wire format for calendar dates throughout the bot.
const ISODateLayout = "2006-01-02"

// FullName reports whether s contains at least a first and last name.
func FullName(s string) bool {
	return len(strings.Fields(strings.TrimSpace(s))) >= 2
}

// PhoneNumber reports whether s is an 8-12 digit number with an optional
// leading plus, ignoring interior whitespace.
func PhoneNumber(s string) bool {
	return phonePattern.MatchString(stripSpaces(s))
}

// ChileanPhone reports whether s is a Chilean mobile number:
// +56 9 XXXX XXXX, 9 XXXX XXXX or +569XXXXXXXX.
func ChileanPhone(s string) bool {
	return chileanPhonePattern.MatchString(stripSpaces(s))
}

// FormatChileanPhone normalizes a Chilean mobile number to +56XXXXXXXXX.
func FormatChileanPhone(s string) string {
	clean := nonDigits.ReplaceAllString(stripSpaces(s), "")
	if !strings.HasPrefix(clean, "+56") {
		return "+56" + clean
	}
	return clean
}

// Email reports whether s has a basic local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// ISODate reports whether s parses strictly as YYYY-MM-DD. Out-of-range
// values (2025-02-30) are rejected, not silently normalized.
func ISODate(s string) bool {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(ISODateLayout) == s
}

// TimeOfDay reports whether s parses strictly as HH:mm.
func TimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
