package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics. It also counts workflow events for the
// classifier service.
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64
	SessionsTotal      atomic.Uint64
	AssessmentsTotal   atomic.Uint64
	AssessmentsFailed  atomic.Uint64
	StepsFinalized     atomic.Uint64
	Overrides          atomic.Uint64
	ReportsTotal       atomic.Uint64
	ReportsFailed      atomic.Uint64
	StartTime          time.Time

	// Gauges read at snapshot time, e.g. live session count.
	Gauges map[string]func() int
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now(), Gauges: map[string]func() int{}}
}

func (m *Metrics) SessionCreated() { m.SessionsTotal.Add(1) }

func (m *Metrics) AssessmentCompleted(failed bool) {
	m.AssessmentsTotal.Add(1)
	if failed {
		m.AssessmentsFailed.Add(1)
	}
}

func (m *Metrics) StepFinalized(overridden bool) {
	m.StepsFinalized.Add(1)
	if overridden {
		m.Overrides.Add(1)
	}
}

func (m *Metrics) ReportCompleted(failed bool) {
	m.ReportsTotal.Add(1)
	if failed {
		m.ReportsFailed.Add(1)
	}
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	out := map[string]interface{}{
		"requests_total":       m.RequestsTotal.Load(),
		"requests_in_progress": m.RequestsInProgress.Load(),
		"requests_success":     m.RequestsSuccess.Load(),
		"requests_failed":      m.RequestsFailed.Load(),
		"sessions_total":       m.SessionsTotal.Load(),
		"assessments_total":    m.AssessmentsTotal.Load(),
		"assessments_failed":   m.AssessmentsFailed.Load(),
		"steps_finalized":      m.StepsFinalized.Load(),
		"overrides_total":      m.Overrides.Load(),
		"reports_total":        m.ReportsTotal.Load(),
		"reports_failed":       m.ReportsFailed.Load(),
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
	for name, g := range m.Gauges {
		out[name] = g()
	}
	return out
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.RequestsSuccess.Add(1)
		} else {
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
