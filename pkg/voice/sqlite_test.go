package voice

import (
	"context"
	"testing"
	"time"

	"github.com/neuronaut/clarity/pkg/memory"
)

func openQuotaStore(t *testing.T) *SQLiteQuotaStore {
	t.Helper()
	db, err := memory.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteQuotaStore(db.DB())
}

func TestSQLiteQuotaCeiling(t *testing.T) {
	s := openQuotaStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		ok, err := s.Allow(ctx, "user-1", 3, now)
		if err != nil || !ok {
			t.Fatalf("request %d should pass: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := s.Allow(ctx, "user-1", 3, now)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("ceiling must hold")
	}
}

func TestSQLiteQuotaRollover(t *testing.T) {
	s := openQuotaStore(t)
	ctx := context.Background()
	start := time.Now()

	for i := 0; i < 3; i++ {
		_, _ = s.Allow(ctx, "user-1", 3, start)
	}
	if ok, _ := s.Allow(ctx, "user-1", 3, start.Add(time.Hour)); ok {
		t.Fatalf("expected rejection inside window")
	}
	ok, err := s.Allow(ctx, "user-1", 3, start.Add(Window+time.Minute))
	if err != nil || !ok {
		t.Fatalf("expected reset after window: ok=%v err=%v", ok, err)
	}
}
