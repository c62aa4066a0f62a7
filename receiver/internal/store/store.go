// Package store models the receiver's downstream datastore. The demo ships
// two backends: a memory store that only simulates the round-trip latency,
// and a Redis store that performs a real write so the database spans carry
// genuine I/O timing.
package store

import (
	"context"

	"github.com/tenantwave/tenantwave-demo/common/models"
)

// Store is the receiver's datastore round-trip.
type Store interface {
	// Save records the processed request and reports a result summary.
	Save(ctx context.Context, req *models.ProcessRequest) (*models.DatabaseResult, error)
	// Ping reports whether the backing store is reachable; used by the
	// readiness probe.
	Ping(ctx context.Context) error
	// System names the backend for the db.system span attribute.
	System() string
	Close() error
}
