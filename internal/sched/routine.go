package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownState means a restored state id does not resolve to a state
	// function. Indicates corrupted or version-mismatched saved state.
	ErrUnknownState = errors.New("sched: unknown state id")

	// ErrStateShape means a restored state's parameter shape does not match
	// the presence or type of the awaited future.
	ErrStateShape = errors.New("sched: state shape mismatch")
)

// StateID names one resumption point of a Routine. Ids are stable plain
// strings so a suspended routine can be described, saved and rebuilt without
// capturing closures.
type StateID string

// stateBecome is the reserved forwarding state behind BecomeTask: it
// completes the routine with the delegated task's exact result.
const stateBecome StateID = "become/forward"

// StateFunc is one resumption point. Build it with State0 (no parameter) or
// State1 (receives the awaited future's value).
type StateFunc struct {
	run     func() TaskStatus
	runV    func(v any) TaskStatus
	accepts func(a Awaitable) bool
}

// State0 wraps a parameterless state function. When resumed with an awaited
// future bound (as WaitForMany does), the fulfilled value is dropped.
func State0(fn func() TaskStatus) StateFunc {
	return StateFunc{run: fn}
}

// State1 wraps a state function that receives the awaited future's value.
func State1[T any](fn func(T) TaskStatus) StateFunc {
	return StateFunc{
		runV: func(v any) TaskStatus { return fn(v.(T)) },
		accepts: func(a Awaitable) bool {
			_, ok := a.(*Future[T])
			return ok
		},
	}
}

// Routine implements a Task as a sequence of named resumption points,
// dispatched through a per-instance state table built once at construction.
// Embed it in a task struct, call Init from the constructor, and return
// combinator results from state functions:
//
//	type greet struct {
//		sched.Routine
//	}
//
//	func newGreet() *greet {
//		g := &greet{}
//		g.Init("hello", map[sched.StateID]sched.StateFunc{
//			"hello": sched.State0(g.hello),
//		})
//		return g
//	}
//
// A suspended Routine is fully described by its current StateID plus the
// optional awaited future; Restore rebuilds that point without re-executing
// any earlier state.
type Routine struct {
	entry   StateID
	states  map[StateID]StateFunc
	current StateID // empty until the entry state has dispatched
	awaited Awaitable
	sched   *Scheduler
	result  *Future[TaskResult]
}

// Init records the entry state and the dispatch table. Must be called before
// the routine is enqueued.
func (r *Routine) Init(entry StateID, states map[StateID]StateFunc) {
	r.entry = entry
	r.states = states
}

// bind is the scheduler-binding capability; assigned once at enqueue time.
func (r *Routine) bind(s *Scheduler, result *Future[TaskResult]) {
	r.sched = s
	r.result = result
}

// Scheduler returns the owning scheduler, available from the first step on.
func (r *Routine) Scheduler() *Scheduler { return r.sched }

// CurrentState returns the state the routine will resume at; empty means the
// entry state has not dispatched yet.
func (r *Routine) CurrentState() StateID { return r.current }

// Awaited returns the future the routine is suspended on, or nil.
func (r *Routine) Awaited() Awaitable { return r.awaited }

// Step dispatches the current state function. A panic inside a state is
// absorbed: the routine's own result future is settled with failure and
// Complete(failure) is returned, matching the scheduler's fault isolation
// one level down.
func (r *Routine) Step() (status TaskStatus) {
	defer func() {
		if rec := recover(); rec != nil {
			r.settleResult(ResultFailure)
			status = Complete(ResultFailure)
		}
	}()

	status = r.invoke()
	if status.kind == statusComplete {
		r.settleResult(status.result)
	}
	return status
}

func (r *Routine) invoke() TaskStatus {
	// The scheduler only resumes ready entries, so a bound awaited future is
	// guaranteed fulfilled here.
	var value any
	hasValue := false
	if r.awaited != nil {
		value = r.awaited.anyValue()
		hasValue = true
		r.awaited = nil
	}

	id := r.current
	if id == "" {
		id = r.entry
		r.current = id
	}

	if id == stateBecome {
		return r.Forward(value.(TaskResult))
	}

	sf, ok := r.states[id]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownState, id))
	}
	if sf.runV != nil {
		if !hasValue {
			panic(fmt.Errorf("%w: state %q resumed without an awaited value", ErrStateShape, id))
		}
		return sf.runV(value)
	}
	return sf.run()
}

func (r *Routine) settleResult(res TaskResult) {
	if r.result != nil {
		settle(r.result, res)
	}
}

// Goto yields once with no synchronization and resumes at next with no
// parameter.
func (r *Routine) Goto(next StateID) TaskStatus {
	r.current = next
	r.awaited = nil
	return Yield()
}

// WaitFor suspends on f and resumes next with f's value once fulfilled.
func (r *Routine) WaitFor(f Awaitable, next StateID) TaskStatus {
	r.current = next
	r.awaited = f
	return Wait(f)
}

// WaitForTask submits sub to the same scheduler and resumes next with sub's
// TaskResult, whatever it is, including failure and stopped.
func (r *Routine) WaitForTask(sub Task, next StateID) TaskStatus {
	return r.WaitFor(r.sched.RunTask(sub), next)
}

// WaitForMany submits every sub-task, then suspends on an internal combinator
// that observes all their result futures in turn. next resumes with no
// parameter once every sub-task has completed, irrespective of order.
func (r *Routine) WaitForMany(next StateID, subs ...Task) TaskStatus {
	futures := make([]Awaitable, len(subs))
	for i, sub := range subs {
		futures[i] = r.sched.RunTask(sub)
	}
	return r.WaitFor(r.sched.RunTask(AwaitAll(futures...)), next)
}

// BecomeTask delegates the rest of this routine to sub: once sub completes,
// the routine completes with sub's exact result.
func (r *Routine) BecomeTask(sub Task) TaskStatus {
	return r.WaitForTask(sub, stateBecome)
}

// Succeed completes the routine with success.
func (r *Routine) Succeed() TaskStatus { return Complete(ResultSuccess) }

// Fail completes the routine with failure.
func (r *Routine) Fail() TaskStatus { return Complete(ResultFailure) }

// Forward completes the routine with the given result.
func (r *Routine) Forward(res TaskResult) TaskStatus { return Complete(res) }

// Restore rebuilds the resumption point of a saved routine from its state id
// and the future it was suspended on, without re-executing earlier states.
// The task's captured fields are the caller's responsibility. Fails when the
// id does not resolve or when a value-taking state's awaited future is
// missing or carries the wrong value type; such errors indicate corrupted or
// version-mismatched saved state and are not recoverable.
func (r *Routine) Restore(state StateID, awaited Awaitable) error {
	if state == stateBecome {
		if awaited == nil {
			return fmt.Errorf("%w: %q requires an awaited task result", ErrStateShape, state)
		}
		if _, ok := awaited.(*Future[TaskResult]); !ok {
			return fmt.Errorf("%w: %q awaits a task result future", ErrStateShape, state)
		}
		r.current = state
		r.awaited = awaited
		return nil
	}

	sf, ok := r.states[state]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	if sf.runV != nil {
		if awaited == nil {
			return fmt.Errorf("%w: state %q requires an awaited future", ErrStateShape, state)
		}
		if !sf.accepts(awaited) {
			return fmt.Errorf("%w: state %q rejects the awaited future's value type", ErrStateShape, state)
		}
	}
	r.current = state
	r.awaited = awaited
	return nil
}
