package sched_test

import (
	"errors"
	"testing"

	"github.com/apples/silk/internal/sched"
)

func TestFutureLifecycle(t *testing.T) {
	f := sched.NewFuture[int]()
	if f.Fulfilled() {
		t.Fatal("new future reports fulfilled")
	}

	f.Fulfill(42)

	if !f.Fulfilled() {
		t.Fatal("fulfilled future reports unfulfilled")
	}
	if got := f.Get(); got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}
	// repeated reads observe the same immutable value
	if got := f.Get(); got != 42 {
		t.Fatalf("second Get() = %d, want 42", got)
	}
}

func TestFutureGetBeforeFulfillPanics(t *testing.T) {
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("Get on unfulfilled future did not panic")
		}
		err, ok := rec.(error)
		if !ok || !errors.Is(err, sched.ErrNotFulfilled) {
			t.Fatalf("panic value = %v, want ErrNotFulfilled", rec)
		}
	}()
	sched.NewFuture[string]().Get()
}

func TestFutureDoubleFulfillPanics(t *testing.T) {
	f := sched.NewFuture[bool]()
	f.Fulfill(true)

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("second Fulfill did not panic")
		}
		err, ok := rec.(error)
		if !ok || !errors.Is(err, sched.ErrRefulfilled) {
			t.Fatalf("panic value = %v, want ErrRefulfilled", rec)
		}
	}()
	f.Fulfill(false)
}

func TestFutureIdentity(t *testing.T) {
	a := sched.NewFuture[int]()
	b := sched.NewFuture[int]()
	if a.ID() == b.ID() {
		t.Fatal("distinct futures share an ID")
	}
}
