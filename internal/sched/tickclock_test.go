package sched_test

import (
	"testing"
	"time"

	"github.com/apples/silk/internal/sched"
)

func TestTickClockDrivesSchedulerToIdle(t *testing.T) {
	s := sched.New()
	result := s.RunTask(&yielder{n: 3, result: sched.ResultSuccess})

	clock := sched.NewTickClock(16)
	clock.Start(time.Millisecond)
	defer clock.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-clock.Ch:
			if !s.ExecuteOne() {
				if !result.Fulfilled() || result.Get() != sched.ResultSuccess {
					t.Fatal("idle before the task completed")
				}
				if clock.Count() < 4 {
					t.Fatalf("tick count = %d, want at least 4", clock.Count())
				}
				return
			}
		case <-deadline:
			t.Fatal("clock never drove the scheduler to idle")
		}
	}
}
