package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.CalculationsTotal == nil || r.HTTPRequestsTotal == nil || r.CatalogFallbacksTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordCalculation(t *testing.T) {
	r := NewRegistry()

	r.RecordCalculation("agua", OutcomeOK, 2*time.Millisecond, 12)
	r.RecordCalculation("agua", OutcomeOK, 3*time.Millisecond, 10)
	r.RecordCalculation("sanitaria", OutcomeIncomplete, time.Millisecond, 4)

	if got := testutil.ToFloat64(r.CalculationsTotal.WithLabelValues("agua", OutcomeOK)); got != 2 {
		t.Errorf("agua ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CalculationsTotal.WithLabelValues("sanitaria", OutcomeIncomplete)); got != 1 {
		t.Errorf("sanitaria incomplete = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.CalculationDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestRecordCatalogFallback(t *testing.T) {
	r := NewRegistry()
	r.RecordCatalogFallback("agua/catalogo_ppr.json")
	r.RecordCatalogFallback("agua/catalogo_ppr.json")

	if got := testutil.ToFloat64(r.CatalogFallbacksTotal.WithLabelValues("agua/catalogo_ppr.json")); got != 2 {
		t.Errorf("fallbacks = %v, want 2", got)
	}
}

func TestRecordProjectOperation(t *testing.T) {
	r := NewRegistry()
	r.RecordProjectOperation("create", nil)
	r.RecordProjectOperation("get", errors.New("not found"))

	if got := testutil.ToFloat64(r.ProjectOperationsTotal.WithLabelValues("create", "ok")); got != 1 {
		t.Errorf("create ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ProjectOperationsTotal.WithLabelValues("get", "error")); got != 1 {
		t.Errorf("get error = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("POST", "/api/water", "200", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `instalaciones_http_requests_total{method="POST",path="/api/water",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", body)
	}
}
