package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kdiomande/maillots/pkg/metrics"
	"github.com/kdiomande/maillots/pkg/router"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Patch("/commandes/{id}/livrer", "", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Distinct ids must land on the same label series.
	for _, id := range []string{"64f0c0ffee0000000000aaaa", "64f0c0ffee0000000000bbbb"} {
		req := httptest.NewRequest(http.MethodPatch, "/commandes/"+id+"/livrer", nil)
		r.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(
		metrics.RequestTotal.WithLabelValues(http.MethodPatch, "/commandes/{id}/livrer", "200"))
	if got != 2 {
		t.Errorf("requests_total{path=pattern} = %v, want 2", got)
	}

	raw := testutil.ToFloat64(
		metrics.RequestTotal.WithLabelValues(http.MethodPatch, "/commandes/64f0c0ffee0000000000aaaa/livrer", "200"))
	if raw != 0 {
		t.Errorf("requests_total{path=raw} = %v, want 0", raw)
	}
}
