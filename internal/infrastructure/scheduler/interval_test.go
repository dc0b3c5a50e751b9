package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerRunsImmediatelyAndTicks(t *testing.T) {
	s := NewIntervalScheduler(20 * time.Millisecond)

	var runs atomic.Int32
	done := make(chan struct{})
	err := s.Start(context.Background(), func(time.Time) {
		if runs.Add(1) == 3 {
			close(done)
		}
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("only %d runs before timeout, want 3", runs.Load())
	}
}

func TestIntervalSchedulerStop(t *testing.T) {
	s := NewIntervalScheduler(10 * time.Millisecond)

	var runs atomic.Int32
	if err := s.Start(context.Background(), func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(35 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	stopped := runs.Load()

	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != stopped {
		t.Errorf("job ran after Stop: %d -> %d", stopped, got)
	}
}

func TestIntervalSchedulerNilJob(t *testing.T) {
	s := NewIntervalScheduler(time.Millisecond)
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start with nil job: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestIntervalSchedulerContextCancel(t *testing.T) {
	s := NewIntervalScheduler(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Errorf("job ran after context cancel: %d -> %d", after, got)
	}
}
