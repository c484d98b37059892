package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assistant and roster Prometheus metrics.
var (
	AssistantRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "assistant_requests_total",
			Help:      "Assistant requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "invalid" / "onboarding"
	)

	RecommendationsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "expertdesk",
			Name:      "recommendations_returned",
			Help:      "Number of expert recommendations per assistant response",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	RosterExperts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "expertdesk",
			Name:      "roster_experts",
			Help:      "Number of experts in the active roster",
		},
	)
)

var assistantMetricsRegistered bool

// RegisterAssistantMetrics registers assistant and roster metrics. Must be called once from main.
func RegisterAssistantMetrics() {
	if assistantMetricsRegistered {
		return
	}
	prometheus.MustRegister(AssistantRequestsTotal)
	prometheus.MustRegister(RecommendationsReturned)
	prometheus.MustRegister(RosterExperts)
	assistantMetricsRegistered = true
}
