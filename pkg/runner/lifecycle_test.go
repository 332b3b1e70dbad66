package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeDrainer struct {
	calls int32
	err   error
	delay time.Duration
}

func (d *fakeDrainer) Drain() error {
	atomic.AddInt32(&d.calls, 1)
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	return d.err
}

func TestLifecycleRunAndStop(t *testing.T) {
	drainer := &fakeDrainer{}
	started := make(chan struct{})
	lc := NewLifecycleRunner(drainer, Hooks{
		OnStart: func() { close(started) },
	}, time.Second)

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("OnStart never fired")
	}

	if err := lc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run never returned")
	}
	if lc.State() != StateStopped {
		t.Fatalf("state = %v, want stopped", lc.State())
	}
	if atomic.LoadInt32(&drainer.calls) != 1 {
		t.Fatalf("drain calls = %d, want 1", drainer.calls)
	}
}

func TestLifecycleDrainTimeout(t *testing.T) {
	drainer := &fakeDrainer{delay: 200 * time.Millisecond}
	lc := NewLifecycleRunner(drainer, Hooks{}, 10*time.Millisecond)

	go func() { _ = lc.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	err := lc.Stop()
	if err == nil || err.Error() != "drain timeout" {
		t.Fatalf("err = %v, want drain timeout", err)
	}
}

func TestLifecycleRejectsDoubleRun(t *testing.T) {
	lc := NewLifecycleRunner(nil, Hooks{}, time.Second)
	go func() { _ = lc.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	if err := lc.Run(context.Background()); err == nil {
		t.Fatal("second Run should fail")
	}
	_ = lc.Stop()
}
