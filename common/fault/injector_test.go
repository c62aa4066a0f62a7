package fault

import (
	"context"
	"testing"
	"time"
)

func TestNew_ValidatesParameters(t *testing.T) {
	tests := []struct {
		name      string
		errorRate float64
		min       time.Duration
		max       time.Duration
		wantErr   bool
	}{
		{name: "all zero", errorRate: 0, min: 0, max: 0, wantErr: false},
		{name: "full error rate", errorRate: 1.0, min: 0, max: 0, wantErr: false},
		{name: "mid error rate with bounds", errorRate: 0.5, min: 10 * time.Millisecond, max: 50 * time.Millisecond, wantErr: false},
		{name: "negative error rate", errorRate: -0.1, wantErr: true},
		{name: "error rate above one", errorRate: 1.5, wantErr: true},
		{name: "negative latency", errorRate: 0, min: -time.Second, max: 0, wantErr: true},
		{name: "min above max", errorRate: 0, min: time.Second, max: time.Millisecond, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.errorRate, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShouldFail_Extremes(t *testing.T) {
	always, err := New(1.0, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	never, err := New(0.0, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		if !always.ShouldFail() {
			t.Fatal("error rate 1.0 should always fail")
		}
		if never.ShouldFail() {
			t.Fatal("error rate 0.0 should never fail")
		}
	}
}

func TestLatency_WithinBounds(t *testing.T) {
	min := 5 * time.Millisecond
	max := 20 * time.Millisecond
	inj, err := New(0, min, max)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		d := inj.Latency()
		if d < min || d > max {
			t.Fatalf("Latency() = %v, want within [%v, %v]", d, min, max)
		}
	}
}

func TestLatency_ZeroWhenDisabled(t *testing.T) {
	inj := Disabled()
	if d := inj.Latency(); d != 0 {
		t.Errorf("Latency() = %v, want 0", d)
	}
	if inj.ShouldFail() {
		t.Error("disabled injector should never fail")
	}
}

func TestSleep_RespectsContextCancellation(t *testing.T) {
	inj, err := New(0, time.Second, time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	inj.Sleep(ctx)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Sleep() with cancelled context took %v, want immediate return", elapsed)
	}
}

func TestSleep_NoDelayWhenDisabled(t *testing.T) {
	start := time.Now()
	if d := Disabled().Sleep(context.Background()); d != 0 {
		t.Errorf("Sleep() = %v, want 0", d)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Sleep() took %v, want immediate return", elapsed)
	}
}
