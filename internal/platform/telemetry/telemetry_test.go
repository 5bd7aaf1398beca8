package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRecordOperation(t *testing.T) {
	p := NewProvider("test")

	p.RecordOperation("patients", "create")
	p.RecordOperation("patients", "create")
	p.RecordOperation("bills", "delete")

	if got := p.OperationCount("patients", "create"); got != 2 {
		t.Errorf("OperationCount(patients, create) = %d, want 2", got)
	}
	if got := p.OperationCount("bills", "delete"); got != 1 {
		t.Errorf("OperationCount(bills, delete) = %d, want 1", got)
	}
	if got := p.OperationCount("doctors", "update"); got != 0 {
		t.Errorf("OperationCount(doctors, update) = %d, want 0", got)
	}
}

func TestCollectionSizeGauge(t *testing.T) {
	p := NewProvider("test")

	p.SetCollectionSize("patients", 12)
	p.SetCollectionSize("patients", 9)
	if got := p.CollectionSize("patients"); got != 9 {
		t.Errorf("CollectionSize(patients) = %d, want 9", got)
	}
}

func TestConcurrentCounters(t *testing.T) {
	p := NewProvider("test")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.RecordOperation("appointments", "create")
			}
		}()
	}
	wg.Wait()

	if got := p.OperationCount("appointments", "create"); got != 1600 {
		t.Errorf("OperationCount = %d, want 1600", got)
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := newHistogram([]float64{0.1, 1.0, 10.0})

	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	if h.Count() != 4 {
		t.Errorf("Count() = %d, want 4", h.Count())
	}
	cum := h.cumulativeBuckets()
	want := []int64{1, 2, 3}
	for i := range want {
		if cum[i] != want[i] {
			t.Errorf("cumulative bucket %d = %d, want %d", i, cum[i], want[i])
		}
	}
	if h.Sum() != 55.55 {
		t.Errorf("Sum() = %g, want 55.55", h.Sum())
	}
}

func TestMetricsMiddlewareAndExposition(t *testing.T) {
	p := NewProvider("test")

	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.GET("/patients", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", p.PrometheusHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/patients", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	p.RecordOperation("patients", "list")
	p.SetCollectionSize("patients", 5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	wantLines := []string{
		`http_request_count{method="GET",route="/patients",status="200"} 3`,
		`clinic_operation_count{collection="patients",operation="list"} 1`,
		`clinic_records_total{collection="patients"} 5`,
		"http_server_request_duration_seconds_count",
	}
	for _, want := range wantLines {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q\nbody:\n%s", want, body)
		}
	}

	if p.ActiveRequests() != 0 {
		t.Errorf("ActiveRequests() = %d, want 0 after requests complete", p.ActiveRequests())
	}
}
