package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"first and last", "Ana Pérez", true},
		{"three tokens", "Ana María Pérez", true},
		{"leading and trailing spaces", "  Ana Pérez  ", true},
		{"single token", "Ana", false},
		{"single token padded", "  Ana  ", false},
		{"empty", "", false},
		{"only spaces", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullName(tt.input))
		})
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+56912345678", true},
		{"56912345678", true},
		{"12345678", true},
		{"+56 9 1234 5678", true},
		{"123", false},
		{"1234567890123", false},
		{"abc12345678", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhoneNumber(tt.input), "input=%q", tt.input)
	}
}

func TestChileanPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+56912345678", true},
		{"+56 9 1234 5678", true},
		{"912345678", true},
		{"9 1234 5678", true},
		{"812345678", false},
		{"+56812345678", false},
		{"91234567", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChileanPhone(tt.input), "input=%q", tt.input)
	}
}

func TestFormatChileanPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9 1234 5678", "+56912345678"},
		{"912345678", "+56912345678"},
		{"+56 9 1234 5678", "+56912345678"},
		{"+56912345678", "+56912345678"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatChileanPhone(tt.input), "input=%q", tt.input)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.com", true},
		{"ana.perez@clinica.cl", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"@b.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.input), "input=%q", tt.input)
	}
}

func TestISODate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2026-09-15", true},
		{"2026-02-28", true},
		{"2026-02-30", false}, // no silent coercion of out-of-range days
		{"2026-13-01", false},
		{"15/09/2026", false},
		{"2026-9-5", false},
		{"hoy", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ISODate(tt.input), "input=%q", tt.input)
	}
}

func TestTimeOfDay(t *testing.T) {
	assert.True(t, TimeOfDay("09:00"))
	assert.True(t, TimeOfDay("14:30"))
	assert.False(t, TimeOfDay("25:00"))
	assert.False(t, TimeOfDay("mañana"))
}
