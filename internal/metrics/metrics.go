package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ClaimsAdmitted   *prometheus.CounterVec
	ClaimsRejected   *prometheus.CounterVec
	TxRetries        prometheus.Counter
	PolicyholdersNew prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClaimsAdmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coverwise_claims_admitted_total",
			Help: "Claims admitted, by initial status",
		}, []string{"status"}),
		ClaimsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coverwise_claims_refused_total",
			Help: "Claim filings refused, by reason",
		}, []string{"reason"}),
		TxRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "coverwise_tx_retries_total",
			Help: "Transactions retried after an identifier collision",
		}),
		PolicyholdersNew: f.NewCounter(prometheus.CounterOpts{
			Name: "coverwise_policyholders_created_total",
			Help: "Total number of policyholders created",
		}),
	}
}

// ClaimAdmitted counts an admitted claim.
func (m *Metrics) ClaimAdmitted(status string) {
	if m == nil {
		return
	}
	m.ClaimsAdmitted.WithLabelValues(status).Inc()
}

// ClaimRefused counts a refused claim filing.
func (m *Metrics) ClaimRefused(reason string) {
	if m == nil {
		return
	}
	m.ClaimsRejected.WithLabelValues(reason).Inc()
}

// TxRetried counts one transaction retry.
func (m *Metrics) TxRetried() {
	if m == nil {
		return
	}
	m.TxRetries.Inc()
}

// PolicyholderCreated increments the policyholders created counter by 1.
func (m *Metrics) PolicyholderCreated() {
	if m == nil {
		return
	}
	m.PolicyholdersNew.Inc()
}
