package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest(http.MethodGet, "/api/v1/backorders", http.StatusOK, 25*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/backorders", http.StatusOK, 30*time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/backorders", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}

func TestObserveRequestNilReceiverIsNoop(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest(http.MethodGet, "/x", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("", "", http.StatusOK, time.Millisecond)
}
