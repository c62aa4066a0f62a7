package store

import (
	"context"
	"math/rand"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/models"
)

// MemoryStore simulates a datastore round-trip: it sleeps for the
// configured processing time and reports a random record count, the same
// shape a real query would produce. Nothing is retained between calls.
type MemoryStore struct {
	processingTime time.Duration
}

// NewMemoryStore returns a store whose Save takes processingTime to
// complete. Zero means no artificial delay.
func NewMemoryStore(processingTime time.Duration) *MemoryStore {
	return &MemoryStore{processingTime: processingTime}
}

func (s *MemoryStore) Save(ctx context.Context, req *models.ProcessRequest) (*models.DatabaseResult, error) {
	if s.processingTime > 0 {
		timer := time.NewTimer(s.processingTime)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return &models.DatabaseResult{
		Records: rand.Intn(10) + 1,
		Status:  "success",
	}, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) System() string {
	return "simulated"
}

func (s *MemoryStore) Close() error {
	return nil
}
