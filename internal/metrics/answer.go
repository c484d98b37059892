package metrics

import "github.com/prometheus/client_golang/prometheus"

// Answer generation Prometheus metrics.
var (
	AnswerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "answer_requests_total",
			Help:      "Total number of answer generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	AnswerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "expertdesk",
			Name:      "answer_request_duration_seconds",
			Help:      "Answer generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"provider", "model"},
	)

	AnswerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "answer_tokens_total",
			Help:      "Total answer generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	AnswerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "answer_errors_total",
			Help:      "Total answer generation errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	AnswerBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "expertdesk",
			Name:      "answer_budget_tokens_remaining",
			Help:      "Remaining answer token budget",
		},
		[]string{"provider", "period"},
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnswerFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expertdesk",
			Name:      "answer_fallback_total",
			Help:      "Answers replaced by the fixed fallback text",
		},
		[]string{"reason"}, // "timeout" / "quota" / "error"
	)
)

var answerMetricsRegistered bool

// RegisterAnswerMetrics registers Prometheus answer metrics. Must be called once from main.
func RegisterAnswerMetrics() {
	if answerMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnswerRequestsTotal)
	prometheus.MustRegister(AnswerRequestDuration)
	prometheus.MustRegister(AnswerTokensTotal)
	prometheus.MustRegister(AnswerErrorsTotal)
	prometheus.MustRegister(AnswerBudgetTokensRemaining)
	prometheus.MustRegister(AnswerCacheTotal)
	prometheus.MustRegister(AnswerFallbackTotal)
	answerMetricsRegistered = true
}
