// Package sched is a cooperative, single-threaded task scheduler: an ordered
// queue of polymorphic tasks, one-shot futures for synchronization, and a
// resumable continuation engine for writing long-running procedures as named
// resumption points. Tasks yield voluntarily; there is no preemption and no
// parallelism.
package sched

// Task is one unit of cooperatively scheduled work. Step advances the task
// by exactly one increment and reports what should happen next: either the
// task is done, or it wants to run again later (possibly gated on a future).
//
// Step must not block; the scheduler runs it to completion synchronously
// inside ExecuteOne.
type Task interface {
	Step() TaskStatus
}

// binder is the capability a task may implement to receive its owning
// scheduler and its own result future at enqueue time. The scheduler assigns
// both exactly once, before the task's first step. Routine implements it.
type binder interface {
	bind(s *Scheduler, result *Future[TaskResult])
}

// awaiter lets a task restored mid-suspension re-declare the future it was
// waiting on, so the scheduler does not step it before fulfillment.
type awaiter interface {
	Awaited() Awaitable
}

// Func adapts a plain function into a single-step Task.
func Func(fn func() TaskResult) Task {
	return funcTask(fn)
}

type funcTask func() TaskResult

func (f funcTask) Step() TaskStatus {
	return Complete(f())
}

// TaskResult is the terminal outcome of a task.
type TaskResult int

const (
	// ResultSuccess means the task finished normally.
	ResultSuccess TaskResult = iota

	// ResultFailure means the task finished abnormally: it either reported
	// failure itself, panicked during a step, or returned a malformed status.
	ResultFailure

	// ResultStopped means the scheduler cancelled the task via StopAll.
	// Ordinary task logic never produces it.
	ResultStopped
)

func (r TaskResult) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	case ResultStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type statusKind int

const (
	// The zero value is deliberately not a legal status. A task returning
	// TaskStatus{} hits the scheduler's defensive unknown-status branch.
	statusInvalid statusKind = iota
	statusComplete
	statusWaiting
)

// TaskStatus is what a task's Step reports back to the scheduler: completion
// with a result, or a request to run again (optionally gated on a future).
type TaskStatus struct {
	kind   statusKind
	result TaskResult
	future Awaitable
}

// Complete reports that the task is done with the given result.
func Complete(r TaskResult) TaskStatus {
	return TaskStatus{kind: statusComplete, result: r}
}

// Wait reports that the task should not run again until f is fulfilled.
// Wait(nil) is equivalent to Yield.
func Wait(f Awaitable) TaskStatus {
	return TaskStatus{kind: statusWaiting, future: f}
}

// Yield reports that the task should run again as soon as possible, with no
// synchronization.
func Yield() TaskStatus {
	return TaskStatus{kind: statusWaiting}
}
