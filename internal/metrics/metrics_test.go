package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ClaimAdmitted("pending")
	m.ClaimAdmitted("pending")
	m.ClaimAdmitted("flagged")
	m.ClaimRefused("coverage_exceeded")
	m.TxRetried()
	m.PolicyholderCreated()

	if got := testutil.ToFloat64(m.ClaimsAdmitted.WithLabelValues("pending")); got != 2 {
		t.Errorf("pending admitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ClaimsRejected.WithLabelValues("coverage_exceeded")); got != 1 {
		t.Errorf("refused = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TxRetries); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ClaimAdmitted("pending")
	m.ClaimRefused("x")
	m.TxRetried()
	m.PolicyholderCreated()
}
