package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts eligibility outcomes. A nil *Metrics records nothing.
type Metrics struct {
	assessments   *prometheus.CounterVec
	policyActions *prometheus.CounterVec
	oracleLatency *prometheus.HistogramVec
	confirmations prometheus.Counter
	gatherer      prometheus.Gatherer
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loan",
			Name:      "assessments_total",
			Help:      "Eligibility assessments by outcome and ceiling tier.",
		}, []string{"outcome", "tier"}),
		policyActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loan",
			Name:      "policy_corrections_total",
			Help:      "Oracle proposals corrected by lending policy.",
		}, []string{"action"}),
		oracleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loan",
			Name:      "oracle_request_seconds",
			Help:      "Scoring oracle round-trip time.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"result"}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loan",
			Name:      "confirmations_total",
			Help:      "Approved decisions confirmed into loans.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.assessments, m.policyActions, m.oracleLatency, m.confirmations)
	return m
}

func (m *Metrics) Assessment(outcome, tier string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(outcome, tier).Inc()
}

func (m *Metrics) PolicyCorrection(action string) {
	if m == nil {
		return
	}
	m.policyActions.WithLabelValues(action).Inc()
}

func (m *Metrics) OracleCall(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.oracleLatency.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) Confirmation() {
	if m == nil {
		return
	}
	m.confirmations.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
