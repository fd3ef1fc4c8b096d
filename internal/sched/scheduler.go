// internal/sched/scheduler.go

package sched

import (
	"io"
	"log/slog"
	"time"

	"github.com/emirpasic/gods/lists/singlylinkedlist"
	"github.com/google/uuid"
)

// Scheduler owns an ordered queue of pending tasks and advances exactly one
// ready task per ExecuteOne call.
//
// Everything here assumes a single logical owner: the host's driving loop.
// All calls must originate from one control thread; no internal locking is
// provided. Tasks yield voluntarily; a step that never returns blocks the
// scheduler (that is the cooperative contract, not a defect to detect).
type Scheduler struct {
	queue     *singlylinkedlist.List // of *pendingEntry, insertion order
	hooks     []func(Task)
	listeners []func(Event)
	cfg       Config
	logger    *slog.Logger
}

// pendingEntry tracks one enqueued task: the task itself, the future the
// caller of RunTask observes, and whatever future the task last declared it
// is waiting on. Born in RunTask, mutated once per step, removed the step
// the task completes.
type pendingEntry struct {
	id       uuid.UUID
	task     Task
	result   *Future[TaskResult]
	awaiting Awaitable
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l.With("component", "sched")
	}
}

// WithConfig applies a loaded Config.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) { s.cfg = cfg }
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:  singlylinkedlist.New(),
		cfg:    defaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len reports the number of pending entries.
func (s *Scheduler) Len() int { return s.queue.Size() }

// OnEnqueue registers a hook invoked synchronously inside RunTask, given the
// about-to-run task before its first step. Hosts use it to attach context to
// tasks via type assertion on their own capability interfaces.
func (s *Scheduler) OnEnqueue(hook func(Task)) {
	s.hooks = append(s.hooks, hook)
}

// Listen registers a synchronous observer for scheduler lifecycle events.
func (s *Scheduler) Listen(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Scheduler) emit(ev Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}

// RunTask appends t to the tail of the queue and returns the future that
// will carry its terminal result. If t implements the binding capability,
// the scheduler and the result future are assigned to it here, exactly once.
func (s *Scheduler) RunTask(t Task) *Future[TaskResult] {
	entry := &pendingEntry{
		id:     uuid.New(),
		task:   t,
		result: NewFuture[TaskResult](),
	}
	if b, ok := t.(binder); ok {
		b.bind(s, entry.result)
	}
	if a, ok := t.(awaiter); ok {
		entry.awaiting = a.Awaited()
	}
	s.queue.Add(entry)

	for _, hook := range s.hooks {
		hook(t)
	}

	s.logger.Debug("task queued", "entry", entry.id, "pending", s.queue.Size())
	s.emit(Event{Time: time.Now(), Kind: EventEnqueue, Entry: entry.id})
	return entry.result
}

// ExecuteOne advances the earliest-queued ready task by one step. An entry
// is ready when it awaits nothing or its awaited future is fulfilled; others
// are skipped in place, never reordered, never dropped. Returns false when
// no entry is ready (no progress is possible this call).
func (s *Scheduler) ExecuteOne() bool {
	it := s.queue.Iterator()
	for it.Next() {
		e := it.Value().(*pendingEntry)
		if e.awaiting != nil && !e.awaiting.Fulfilled() {
			continue
		}
		s.dispatch(it.Index(), e)
		return true
	}
	return false
}

// dispatch steps one ready entry and settles or requeues it.
func (s *Scheduler) dispatch(index int, e *pendingEntry) {
	status := s.step(e)

	switch status.kind {
	case statusWaiting:
		e.awaiting = status.future
		s.emit(Event{Time: time.Now(), Kind: EventStep, Entry: e.id})
		if status.future != nil {
			s.emit(Event{Time: time.Now(), Kind: EventWait, Entry: e.id})
		}
	case statusComplete:
		s.finish(index, e, status.result)
	default:
		// The task returned a status outside the defined union. Treat it as
		// misbehaving rather than crashing the scheduler.
		s.logger.Warn("task returned unknown status", "entry", e.id)
		s.finish(index, e, ResultFailure)
	}
}

// step invokes the task's Step, converting a panic into Complete(failure).
// A fault in one task never aborts the scheduler or touches its siblings.
func (s *Scheduler) step(e *pendingEntry) (status TaskStatus) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("task fault", "entry", e.id, "panic", r)
			status = Complete(ResultFailure)
		}
	}()
	return e.task.Step()
}

func (s *Scheduler) finish(index int, e *pendingEntry, result TaskResult) {
	// An engine-backed task fulfills its own result future from inside the
	// step; settle covers plain tasks without double-writing.
	settle(e.result, result)
	s.queue.Remove(index)
	s.logger.Debug("task finished", "entry", e.id, "result", result)
	s.emit(Event{Time: time.Now(), Kind: EventFinish, Entry: e.id, Result: result})
}

// StopAll cancels every pending task: each entry's result future is settled
// with ResultStopped and the queue is emptied. Dependents observe Stopped as
// a terminal, non-retryable outcome. Idempotent; a no-op on an empty queue.
func (s *Scheduler) StopAll() {
	it := s.queue.Iterator()
	for it.Next() {
		e := it.Value().(*pendingEntry)
		settle(e.result, ResultStopped)
		s.emit(Event{Time: time.Now(), Kind: EventStop, Entry: e.id, Result: ResultStopped})
	}
	if n := s.queue.Size(); n > 0 {
		s.logger.Info("stopped all pending tasks", "count", n)
	}
	s.queue.Clear()
}

// Drain calls ExecuteOne until it returns false or limit steps have run, and
// returns the number of productive steps. limit <= 0 falls back to the
// configured drain limit, guarding hosts against tasks that yield forever.
func (s *Scheduler) Drain(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DrainLimit
	}
	steps := 0
	for steps < limit && s.ExecuteOne() {
		steps++
	}
	return steps
}
