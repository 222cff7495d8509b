package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3008", cfg.Port)
	assert.Equal(t, FlowMenu, cfg.FlowVariant)
	assert.Equal(t, "America/Santiago", cfg.ClinicTimezone)
	assert.Equal(t, time.Hour, cfg.AppointmentDuration)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "v22.0", cfg.MetaAPIVersion)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FLOW_VARIANT", "ai")
	t.Setenv("APPOINTMENT_DURATION", "30m")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, FlowAI, cfg.FlowVariant)
	assert.Equal(t, 30*time.Minute, cfg.AppointmentDuration)
	assert.True(t, cfg.RedisTLS)
}

func TestParseFlowVariant(t *testing.T) {
	tests := []struct {
		raw  string
		want FlowVariant
	}{
		{"menu", FlowMenu},
		{"ai", FlowAI},
		{" AI ", FlowAI},
		{"", FlowMenu},
		{"something-else", FlowMenu},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFlowVariant(tt.raw), "raw=%q", tt.raw)
	}
}
