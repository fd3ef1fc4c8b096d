package sched

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a scheduler lifecycle event.
type EventKind int

const (
	EventEnqueue EventKind = iota // entry appended by RunTask
	EventStep                     // entry stepped and still pending
	EventWait                     // entry recorded a new awaited future
	EventFinish                   // entry completed and was removed
	EventStop                     // entry cancelled by StopAll
)

func (k EventKind) String() string {
	switch k {
	case EventEnqueue:
		return "Enqueue"
	case EventStep:
		return "Step"
	case EventWait:
		return "Wait"
	case EventFinish:
		return "Finish"
	case EventStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// Event is emitted synchronously to registered listeners on key scheduler
// actions. Observation only; listeners must not mutate the scheduler from
// inside a callback.
type Event struct {
	Time   time.Time
	Kind   EventKind
	Entry  uuid.UUID
	Result TaskResult // meaningful for Finish and Stop
}
