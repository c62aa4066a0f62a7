// Package fault implements the probabilistic fault injection used by the
// demo services to produce varied telemetry: a per-request error draw and a
// bounded artificial latency. Parameters are read once at process start and
// never mutated afterwards, so an Injector is safe for concurrent use.
package fault

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Injector draws simulated failures and latency for each request.
type Injector struct {
	errorRate  float64
	minLatency time.Duration
	maxLatency time.Duration
}

// New validates the fault parameters and returns an Injector.
// errorRate must be in [0,1]; latency bounds must be non-negative with
// min <= max.
func New(errorRate float64, minLatency, maxLatency time.Duration) (*Injector, error) {
	if errorRate < 0 || errorRate > 1 {
		return nil, fmt.Errorf("error rate %v outside [0,1]", errorRate)
	}
	if minLatency < 0 || maxLatency < 0 {
		return nil, fmt.Errorf("latency bounds must be non-negative, got [%v, %v]", minLatency, maxLatency)
	}
	if minLatency > maxLatency {
		return nil, fmt.Errorf("min latency %v exceeds max latency %v", minLatency, maxLatency)
	}
	return &Injector{
		errorRate:  errorRate,
		minLatency: minLatency,
		maxLatency: maxLatency,
	}, nil
}

// Disabled returns an injector that never fails and never sleeps.
func Disabled() *Injector {
	return &Injector{}
}

// ErrorRate returns the configured error probability.
func (i *Injector) ErrorRate() float64 {
	return i.errorRate
}

// MaxLatency returns the upper latency bound.
func (i *Injector) MaxLatency() time.Duration {
	return i.maxLatency
}

// ShouldFail draws once against the configured error probability.
func (i *Injector) ShouldFail() bool {
	if i.errorRate <= 0 {
		return false
	}
	if i.errorRate >= 1 {
		return true
	}
	return rand.Float64() < i.errorRate
}

// Latency samples a duration uniformly from [min, max].
func (i *Injector) Latency() time.Duration {
	if i.maxLatency <= 0 {
		return 0
	}
	if i.maxLatency == i.minLatency {
		return i.maxLatency
	}
	return i.minLatency + time.Duration(rand.Int63n(int64(i.maxLatency-i.minLatency)+1))
}

// Sleep applies a sampled latency, returning early if ctx is cancelled.
// It reports the duration actually requested so callers can record it.
func (i *Injector) Sleep(ctx context.Context) time.Duration {
	d := i.Latency()
	if d <= 0 {
		return 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	return d
}
