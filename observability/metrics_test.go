package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.Assessment("eligible", "D")
	m.Assessment("eligible", "D")
	m.Assessment("oracle_error", "A")
	m.PolicyCorrection("clamp")
	m.Confirmation()
	m.OracleCall(150*time.Millisecond, nil)
	m.OracleCall(time.Second, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assessments.WithLabelValues("eligible", "D")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assessments.WithLabelValues("oracle_error", "A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.policyActions.WithLabelValues("clamp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.confirmations))
	assert.Equal(t, 2, testutil.CollectAndCount(m.oracleLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Confirmation()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "loan_confirmations_total 1")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Assessment("eligible", "A")
		m.PolicyCorrection("clamp")
		m.OracleCall(time.Second, nil)
		m.Confirmation()
	})
}
