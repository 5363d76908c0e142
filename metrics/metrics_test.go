package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)
	m.Decisions.WithLabelValues("convertible").Inc()
	m.Decisions.WithLabelValues("convertible").Inc()
	m.Renders.WithLabelValues(RenderFailed).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("convertible")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Decisions.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues(RenderFailed)))
}

func TestMetrics_Handler(t *testing.T) {
	sessions := 3
	m := New(func() int { return sessions })
	m.Requests.WithLabelValues("/", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fluecheck_sessions_active 3")
	assert.Contains(t, string(body), `fluecheck_http_requests_total{code="200",route="/"} 1`)
}
