// Package telemetry provides lightweight observability for the clinic API:
// counters for record operations, gauges for collection sizes, HTTP request
// histograms, and a Prometheus text exposition endpoint.
package telemetry

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Histogram
// ---------------------------------------------------------------------------

// histogram is a thread-safe histogram with configurable bucket boundaries.
// Bucket counts are non-cumulative in storage; cumulative counts are computed
// at export time.
type histogram struct {
	boundaries   []float64
	bucketCounts []int64
	count        int64
	sum          uint64     // math.Float64bits for atomic add
	mu           sync.Mutex // protects bucketCounts
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{
		boundaries:   boundaries,
		bucketCounts: make([]int64, len(boundaries)),
	}
}

func (h *histogram) Observe(v float64) {
	atomic.AddInt64(&h.count, 1)
	atomicAddFloat64(&h.sum, v)

	h.mu.Lock()
	for i, b := range h.boundaries {
		if v <= b {
			h.bucketCounts[i]++
			h.mu.Unlock()
			return
		}
	}
	// Value exceeds all boundaries, counted only in +Inf at export.
	h.mu.Unlock()
}

func (h *histogram) Count() int64 {
	return atomic.LoadInt64(&h.count)
}

func (h *histogram) Sum() float64 {
	return math.Float64frombits(atomic.LoadUint64(&h.sum))
}

func (h *histogram) cumulativeBuckets() []int64 {
	h.mu.Lock()
	raw := make([]int64, len(h.bucketCounts))
	copy(raw, h.bucketCounts)
	h.mu.Unlock()

	cum := make([]int64, len(raw))
	var running int64
	for i, c := range raw {
		running += c
		cum[i] = running
	}
	return cum
}

func atomicAddFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		newVal := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(addr, old, math.Float64bits(newVal)) {
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Counter and gauge stores
// ---------------------------------------------------------------------------

type counterStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newCounterStore() *counterStore {
	return &counterStore{items: make(map[string]*int64)}
}

func (s *counterStore) inc(key string) {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, 1)
		return
	}
	s.mu.Lock()
	p, ok = s.items[key]
	if !ok {
		v := int64(1)
		s.items[key] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.AddInt64(p, 1)
}

func (s *counterStore) get(key string) int64 {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

func (s *counterStore) snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]int64, len(s.items))
	for k, p := range s.items {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

type gaugeStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newGaugeStore() *gaugeStore {
	return &gaugeStore{items: make(map[string]*int64)}
}

func (s *gaugeStore) set(name string, val int64) {
	s.mu.Lock()
	p, ok := s.items[name]
	if !ok {
		v := val
		s.items[name] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.StoreInt64(p, val)
}

func (s *gaugeStore) add(name string, delta int64) {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, delta)
		return
	}
	s.mu.Lock()
	p, ok = s.items[name]
	if !ok {
		v := delta
		s.items[name] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.AddInt64(p, delta)
}

func (s *gaugeStore) get(name string) int64 {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

func (s *gaugeStore) snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]int64, len(s.items))
	for k, p := range s.items {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

// ---------------------------------------------------------------------------
// Provider
// ---------------------------------------------------------------------------

// defaultDurationBuckets are the histogram bucket boundaries (in seconds)
// used for HTTP request duration.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// Provider manages all observability state for the process.
type Provider struct {
	serviceName string
	durations   *histogram
	counters    *counterStore
	gauges      *gaugeStore
}

func NewProvider(serviceName string) *Provider {
	if serviceName == "" {
		serviceName = "clinic-server"
	}
	return &Provider{
		serviceName: serviceName,
		durations:   newHistogram(defaultDurationBuckets),
		counters:    newCounterStore(),
		gauges:      newGaugeStore(),
	}
}

// RecordOperation increments the operation counter for a collection. The
// operation is one of create, update, delete, list.
func (p *Provider) RecordOperation(collection, operation string) {
	p.counters.inc("clinic.operation.count|" + collection + "|" + operation)
}

// OperationCount returns the current value of an operation counter.
func (p *Provider) OperationCount(collection, operation string) int64 {
	return p.counters.get("clinic.operation.count|" + collection + "|" + operation)
}

// SetCollectionSize records the number of persisted records in a collection.
func (p *Provider) SetCollectionSize(collection string, n int64) {
	p.gauges.set("clinic.records.total|"+collection, n)
}

// CollectionSize returns the last recorded size of a collection.
func (p *Provider) CollectionSize(collection string) int64 {
	return p.gauges.get("clinic.records.total|" + collection)
}

// ActiveRequests returns the number of in-flight HTTP requests.
func (p *Provider) ActiveRequests() int64 {
	return p.gauges.get("http.server.active_requests")
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// MetricsMiddleware returns echo middleware that records HTTP server metrics.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p.gauges.add("http.server.active_requests", 1)
			start := time.Now()

			err := next(c)

			p.gauges.add("http.server.active_requests", -1)
			p.durations.Observe(time.Since(start).Seconds())

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			p.counters.inc(fmt.Sprintf("http.request.count|%s|%s|%d",
				c.Request().Method, route, c.Response().Status))

			return err
		}
	}
}

// ---------------------------------------------------------------------------
// Prometheus exposition
// ---------------------------------------------------------------------------

// PrometheusHandler returns an echo handler that serves metrics in the
// Prometheus text exposition format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder

		b.WriteString("# HELP http_server_request_duration_seconds Duration of HTTP requests in seconds.\n")
		b.WriteString("# TYPE http_server_request_duration_seconds histogram\n")
		writeHistogram(&b, "http_server_request_duration_seconds", p.durations, defaultDurationBuckets)
		b.WriteByte('\n')

		b.WriteString("# HELP http_server_active_requests Number of active HTTP requests.\n")
		b.WriteString("# TYPE http_server_active_requests gauge\n")
		fmt.Fprintf(&b, "http_server_active_requests %d\n", p.gauges.get("http.server.active_requests"))
		b.WriteByte('\n')

		b.WriteString("# HELP http_request_count Total HTTP requests by method, route and status.\n")
		b.WriteString("# TYPE http_request_count counter\n")
		writeLabeledCounters(&b, p.counters.snapshot(), "http.request.count",
			func(parts []string) string {
				return fmt.Sprintf("http_request_count{method=%q,route=%q,status=%q}", parts[0], parts[1], parts[2])
			}, 3)
		b.WriteByte('\n')

		b.WriteString("# HELP clinic_operation_count Total record operations by collection and operation.\n")
		b.WriteString("# TYPE clinic_operation_count counter\n")
		writeLabeledCounters(&b, p.counters.snapshot(), "clinic.operation.count",
			func(parts []string) string {
				return fmt.Sprintf("clinic_operation_count{collection=%q,operation=%q}", parts[0], parts[1])
			}, 2)
		b.WriteByte('\n')

		b.WriteString("# HELP clinic_records_total Number of persisted records per collection.\n")
		b.WriteString("# TYPE clinic_records_total gauge\n")
		gauges := p.gauges.snapshot()
		names := make([]string, 0, len(gauges))
		for name := range gauges {
			if strings.HasPrefix(name, "clinic.records.total|") {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			collection := strings.TrimPrefix(name, "clinic.records.total|")
			fmt.Fprintf(&b, "clinic_records_total{collection=%q} %d\n", collection, gauges[name])
		}
		b.WriteByte('\n')

		return c.String(http.StatusOK, b.String())
	}
}

func writeHistogram(b *strings.Builder, name string, h *histogram, boundaries []float64) {
	cum := h.cumulativeBuckets()
	total := h.Count()

	for i, boundary := range boundaries {
		fmt.Fprintf(b, "%s_bucket{le=\"%g\"} %d\n", name, boundary, cum[i])
	}
	fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, total)
	fmt.Fprintf(b, "%s_sum %g\n", name, h.Sum())
	fmt.Fprintf(b, "%s_count %d\n", name, total)
}

func writeLabeledCounters(b *strings.Builder, counters map[string]int64, metric string,
	format func(parts []string) string, nLabels int) {

	keys := make([]string, 0, len(counters))
	for key := range counters {
		if strings.HasPrefix(key, metric+"|") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts := strings.SplitN(strings.TrimPrefix(key, metric+"|"), "|", nLabels)
		if len(parts) != nLabels {
			continue
		}
		fmt.Fprintf(b, "%s %d\n", format(parts), counters[key])
	}
}
