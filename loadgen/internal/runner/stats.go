package runner

import (
	"sort"
	"sync"
	"time"
)

// stats aggregates results across user goroutines. Durations are kept per
// endpoint so percentiles can be computed at report time.
type stats struct {
	mu        sync.Mutex
	started   time.Time
	endpoints map[string]*endpointStats
}

type endpointStats struct {
	requests  int64
	failures  int64
	durations []float64 // milliseconds
}

func newStats() *stats {
	return &stats{
		started:   time.Now(),
		endpoints: make(map[string]*endpointStats),
	}
}

func (s *stats) record(endpoint string, d time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.endpoints[endpoint]
	if !ok {
		es = &endpointStats{}
		s.endpoints[endpoint] = es
	}
	es.requests++
	if failed {
		es.failures++
	}
	es.durations = append(es.durations, float64(d.Microseconds())/1000.0)
}

// Snapshot is a point-in-time view of a run, served by the console API
// while a run is in flight.
type Snapshot struct {
	Running       bool                     `json:"running"`
	ElapsedSec    float64                  `json:"elapsed_seconds"`
	TotalRequests int64                    `json:"total_requests"`
	TotalFailures int64                    `json:"total_failures"`
	Endpoints     map[string]EndpointStats `json:"endpoints"`
}

// EndpointStats summarizes one endpoint's results.
type EndpointStats struct {
	Requests int64   `json:"requests"`
	Failures int64   `json:"failures"`
	P50MS    float64 `json:"p50_ms"`
	P90MS    float64 `json:"p90_ms"`
	P99MS    float64 `json:"p99_ms"`
	MaxMS    float64 `json:"max_ms"`
	MeanMS   float64 `json:"mean_ms"`
}

// Report is the JSON artifact written at the end of a headless run.
type Report struct {
	Target        string                   `json:"target"`
	Users         int                      `json:"users"`
	StartedAt     time.Time                `json:"started_at"`
	FinishedAt    time.Time                `json:"finished_at"`
	DurationSec   float64                  `json:"duration_seconds"`
	TotalRequests int64                    `json:"total_requests"`
	TotalFailures int64                    `json:"total_failures"`
	RequestsPerS  float64                  `json:"requests_per_second"`
	Endpoints     map[string]EndpointStats `json:"endpoints"`
}

func (s *stats) snapshot(running bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Running:    running,
		ElapsedSec: time.Since(s.started).Seconds(),
		Endpoints:  make(map[string]EndpointStats, len(s.endpoints)),
	}
	for name, es := range s.endpoints {
		snap.TotalRequests += es.requests
		snap.TotalFailures += es.failures
		snap.Endpoints[name] = es.summarize()
	}
	return snap
}

func (s *stats) report(target string, users int) *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rep := &Report{
		Target:      target,
		Users:       users,
		StartedAt:   s.started,
		FinishedAt:  now,
		DurationSec: now.Sub(s.started).Seconds(),
		Endpoints:   make(map[string]EndpointStats, len(s.endpoints)),
	}
	for name, es := range s.endpoints {
		rep.TotalRequests += es.requests
		rep.TotalFailures += es.failures
		rep.Endpoints[name] = es.summarize()
	}
	if rep.DurationSec > 0 {
		rep.RequestsPerS = float64(rep.TotalRequests) / rep.DurationSec
	}
	return rep
}

// summarize assumes the stats mutex is held.
func (es *endpointStats) summarize() EndpointStats {
	out := EndpointStats{
		Requests: es.requests,
		Failures: es.failures,
	}
	if len(es.durations) == 0 {
		return out
	}

	sorted := make([]float64, len(es.durations))
	copy(sorted, es.durations)
	sort.Float64s(sorted)

	var sum float64
	for _, d := range sorted {
		sum += d
	}
	out.MeanMS = sum / float64(len(sorted))
	out.P50MS = percentile(sorted, 0.50)
	out.P90MS = percentile(sorted, 0.90)
	out.P99MS = percentile(sorted, 0.99)
	out.MaxMS = sorted[len(sorted)-1]
	return out
}

// percentile expects a sorted slice and p in (0,1].
func percentile(sorted []float64, p float64) float64 {
	idx := int(p*float64(len(sorted))+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
