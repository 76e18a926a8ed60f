package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordPredictions(t *testing.T) {
	m := NewMetrics()
	m.ObservePrediction(1, 2*time.Millisecond)
	m.ObservePrediction(1, time.Millisecond)
	m.ObservePrediction(0, time.Millisecond)
	m.ObserveError("unknown_category")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionErrors.WithLabelValues("unknown_category")))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)
	m.WatchGauge("ws_clients", "Connected live feed clients.", func() float64 { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `hrdash_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
	assert.Contains(t, body, "hrdash_ws_clients 3")
	assert.Contains(t, body, "go_goroutines")
}
