// Package payload generates realistic envelopes for load runs. Request ids
// are sequenced per generator so a run's traffic can be picked out of the
// receiver's logs and traces.
package payload

import (
	"fmt"
	"sync/atomic"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/tenantwave/tenantwave-demo/common/models"
)

// Generator produces envelopes with sequential request ids and fake but
// plausible payload data. Safe for concurrent use.
type Generator struct {
	prefix string
	seq    atomic.Int64
}

// NewGenerator returns a Generator whose request ids are "<prefix>-<n>".
func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = "loadgen"
	}
	return &Generator{prefix: prefix}
}

// Next returns a fresh envelope. Every call advances the sequence.
func (g *Generator) Next() *models.Envelope {
	n := g.seq.Add(1)
	return &models.Envelope{
		RequestID: fmt.Sprintf("%s-%d", g.prefix, n),
		Message:   gofakeit.HackerPhrase(),
		Data: map[string]interface{}{
			"user":       gofakeit.Username(),
			"source_ip":  gofakeit.IPv4Address(),
			"user_agent": gofakeit.UserAgent(),
			"session_id": fmt.Sprintf("sess-%s", gofakeit.UUID()[:8]),
		},
	}
}

// Count reports how many envelopes have been generated so far.
func (g *Generator) Count() int64 {
	return g.seq.Load()
}
