package sched

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFulfilled is the panic value when reading a future that has no value yet.
	ErrNotFulfilled = errors.New("sched: future read before fulfillment")

	// ErrRefulfilled is the panic value when a future is fulfilled a second time.
	ErrRefulfilled = errors.New("sched: future fulfilled twice")
)

// Awaitable is the read side of a future as seen by the scheduler and the
// continuation engine. Only Future implements it.
type Awaitable interface {
	// ID identifies the future across save/restore boundaries.
	ID() uuid.UUID

	// Fulfilled reports whether a value has been written.
	Fulfilled() bool

	// anyValue extracts the value for continuation dispatch.
	// Panics with ErrNotFulfilled while unfulfilled.
	anyValue() any
}

// Future is a one-shot, write-once container for a value that is not
// available yet. The producer holds the only mutating handle; awaiters
// observe it through the Awaitable interface by polling. There is no
// callback mechanism.
//
// A Future is never reused or reset: once fulfilled it stays fulfilled and
// the value is immutable.
type Future[T any] struct {
	id        uuid.UUID
	fulfilled bool
	value     T
}

// NewFuture returns an unfulfilled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{id: uuid.New()}
}

// ID returns the future's stable identity.
func (f *Future[T]) ID() uuid.UUID { return f.id }

// Fulfilled reports whether Fulfill has been called.
func (f *Future[T]) Fulfilled() bool { return f.fulfilled }

// Fulfill writes the value. Callers must guarantee at-most-once; a second
// call is a logic error and panics with ErrRefulfilled.
func (f *Future[T]) Fulfill(v T) {
	if f.fulfilled {
		panic(ErrRefulfilled)
	}
	f.value = v
	f.fulfilled = true
}

// Get returns the value. Reading before fulfillment is a synchronization
// error and panics with ErrNotFulfilled; it cannot happen to a task that is
// resumed by the scheduler, which only steps entries whose awaited future
// is already fulfilled.
func (f *Future[T]) Get() T {
	if !f.fulfilled {
		panic(ErrNotFulfilled)
	}
	return f.value
}

func (f *Future[T]) anyValue() any { return f.Get() }

// settle writes v only when the future is still empty. The scheduler uses it
// when completing entries, since an engine-backed task fulfills its own
// result future from inside the step.
func settle[T any](f *Future[T], v T) {
	if !f.fulfilled {
		f.Fulfill(v)
	}
}
