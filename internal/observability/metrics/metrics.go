package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for booking flows.
type GatewayMetrics struct {
	appointmentsTotal *prometheus.CounterVec
	webhookTotal      *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "appointments",
			Name:      "create_total",
			Help:      "Appointment creation attempts by outcome",
		}, []string{"outcome"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "payments",
			Name:      "webhook_total",
			Help:      "Payment webhook deliveries by event and status",
		}, []string{"event", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "store",
			Name:      "request_seconds",
			Help:      "Latency of upstream store requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal, m.webhookTotal, m.upstreamLatency)
	return m
}

func (m *GatewayMetrics) ObserveCreate(outcome string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(outcome).Inc()
}

func (m *GatewayMetrics) ObserveWebhook(event, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(event, status).Inc()
}

func (m *GatewayMetrics) ObserveUpstream(table, method string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(table, method).Observe(seconds)
}
