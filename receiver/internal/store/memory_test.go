package store

import (
	"context"
	"testing"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/models"
)

func TestMemoryStore_Save(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	result, err := s.Save(context.Background(), &models.ProcessRequest{
		RequestID: "demo-001",
		Message:   "hello",
		TenantID:  "tenant-a",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if result.Status != "success" {
		t.Errorf("status = %q, want success", result.Status)
	}
	if result.Records < 1 || result.Records > 10 {
		t.Errorf("records = %d, want within [1,10]", result.Records)
	}
}

func TestMemoryStore_SaveTakesProcessingTime(t *testing.T) {
	processingTime := 50 * time.Millisecond
	s := NewMemoryStore(processingTime)
	defer s.Close()

	start := time.Now()
	if _, err := s.Save(context.Background(), &models.ProcessRequest{RequestID: "demo-002", Message: "hi"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < processingTime {
		t.Errorf("Save() took %v, want >= %v", elapsed, processingTime)
	}
}

func TestMemoryStore_SaveRespectsContext(t *testing.T) {
	s := NewMemoryStore(time.Second)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := s.Save(ctx, &models.ProcessRequest{RequestID: "demo-003", Message: "hi"})
	if err == nil {
		t.Fatal("Save() should fail when context is cancelled")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Save() took %v after cancellation, want immediate return", elapsed)
	}
}

func TestMemoryStore_Ping(t *testing.T) {
	s := NewMemoryStore(0)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if s.System() != "simulated" {
		t.Errorf("System() = %q, want simulated", s.System())
	}
}
