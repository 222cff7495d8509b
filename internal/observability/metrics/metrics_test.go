package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveInbound("select_time", "advanced")
	m.ObserveInbound("select_time", "rejected")
	m.ObserveSlotQuery("empty")
	m.ObserveBooking("created")
	m.ObserveLLMCall("date_inference", "ok")
	m.ObserveWebhookLatency("message", 0.05)

	families, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterSum(families, "agendabot_dialogue_inbound_messages_total"))
	assert.Equal(t, 1.0, counterSum(families, "agendabot_booking_bookings_total"))
	assert.Equal(t, 1.0, counterSum(families, "agendabot_ai_llm_calls_total"))
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveInbound("step", "status")
	m.ObserveSlotQuery("ok")
	m.ObserveBooking("failed")
	m.ObserveLLMCall("extraction", "error")
	m.ObserveWebhookLatency("message", 0.1)
}

func counterSum(families []*dto.MetricFamily, name string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var sum float64
		for _, metric := range family.GetMetric() {
			sum += metric.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}
