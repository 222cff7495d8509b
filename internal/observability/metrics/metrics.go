package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the booking dialogue.
type BotMetrics struct {
	inboundTotal   *prometheus.CounterVec
	slotQueries    *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	llmCallsTotal  *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendabot",
			Subsystem: "dialogue",
			Name:      "inbound_messages_total",
			Help:      "Total inbound user messages by dialogue step",
		}, []string{"step", "status"}),
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendabot",
			Subsystem: "schedule",
			Name:      "slot_queries_total",
			Help:      "Total availability lookups by outcome",
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendabot",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by status",
		}, []string{"status"}),
		llmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendabot",
			Subsystem: "ai",
			Name:      "llm_calls_total",
			Help:      "Total LLM calls by purpose and status",
		}, []string{"purpose", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agendabot",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of inbound webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.slotQueries, m.bookingsTotal, m.llmCallsTotal, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(step, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(step, status).Inc()
}

func (m *BotMetrics) ObserveSlotQuery(outcome string) {
	if m == nil {
		return
	}
	m.slotQueries.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveLLMCall(purpose, status string) {
	if m == nil {
		return
	}
	m.llmCallsTotal.WithLabelValues(purpose, status).Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(kind).Observe(seconds)
}
