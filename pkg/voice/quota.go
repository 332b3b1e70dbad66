// Package voice gates speech synthesis behind per-subject daily quotas.
package voice

import (
	"context"
	"sync"
	"time"
)

// Window is the rolling quota period. Rollover is lazy: evaluated on each
// request against the stored last-reset timestamp, no background job.
const Window = 24 * time.Hour

// QuotaStore records per-subject daily usage. Allow must be atomic at the
// storage layer: rollover then increment-with-ceiling, so concurrent
// requests for one subject key cannot exceed the limit.
type QuotaStore interface {
	// Allow consumes one unit for the subject if under limit. Returns false
	// when the ceiling is already reached inside the current window.
	Allow(ctx context.Context, subjectKey string, limit int, now time.Time) (bool, error)
}

// MemoryQuotaStore is the in-process QuotaStore used in tests and when no
// database is wired up.
type MemoryQuotaStore struct {
	mu      sync.Mutex
	records map[string]*usageRecord
}

type usageRecord struct {
	countToday int
	lastReset  time.Time
}

func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{records: make(map[string]*usageRecord)}
}

func (s *MemoryQuotaStore) Allow(ctx context.Context, subjectKey string, limit int, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[subjectKey]
	if !ok {
		rec = &usageRecord{lastReset: now}
		s.records[subjectKey] = rec
	}
	if now.Sub(rec.lastReset) > Window {
		rec.countToday = 0
		rec.lastReset = now
	}
	if rec.countToday >= limit {
		return false, nil
	}
	rec.countToday++
	return true, nil
}

var _ QuotaStore = (*MemoryQuotaStore)(nil)
