// Package job holds the demo tasks shipped with the silk CLI. They double as
// realistic exercise for the scheduler in integration tests.
package job

import (
	"github.com/apples/silk/internal/sched"
	"github.com/apples/silk/internal/snapshot"
)

// TypeCount is the snapshot task type identifier for Count.
const TypeCount = "job/count"

const stateCountTick sched.StateID = "tick"

// Count yields n times and then completes with success. Submitted alone, it
// costs exactly n+1 productive scheduler steps.
type Count struct {
	sched.Routine
	Remaining int
}

// NewCount creates a counting task that yields n times.
func NewCount(n int) *Count {
	t := &Count{Remaining: n}
	t.Init(stateCountTick, map[sched.StateID]sched.StateFunc{
		stateCountTick: sched.State0(t.tick),
	})
	return t
}

func (t *Count) tick() sched.TaskStatus {
	if t.Remaining > 0 {
		t.Remaining--
		return t.Goto(stateCountTick)
	}
	return t.Succeed()
}

// Snapshot describes the task as plain data.
func (t *Count) Snapshot() (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{
		TaskType: TypeCount,
		State:    string(t.CurrentState()),
		Fields:   map[string]any{"remaining": t.Remaining},
	}
	if a := t.Awaited(); a != nil {
		snap.Awaiting = a.ID().String()
	}
	return snap, nil
}

func restoreCount(s *snapshot.Snapshot, futures snapshot.Futures) (sched.Task, error) {
	remaining, err := s.Int("remaining")
	if err != nil {
		return nil, err
	}
	t := NewCount(remaining)
	if s.State != "" {
		awaited, err := s.Awaited(futures)
		if err != nil {
			return nil, err
		}
		if err := t.Restore(sched.StateID(s.State), awaited); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register adds every job task type to the snapshot registry.
func Register(r *snapshot.Registry) {
	r.Register(TypeCount, restoreCount)
}
