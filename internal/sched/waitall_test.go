package sched_test

import (
	"testing"

	"github.com/apples/silk/internal/sched"
)

func TestAwaitAllEmptyCompletesImmediately(t *testing.T) {
	s := sched.New()
	result := s.RunTask(sched.AwaitAll())

	if !s.ExecuteOne() {
		t.Fatal("no progress")
	}
	if !result.Fulfilled() || result.Get() != sched.ResultSuccess {
		t.Fatal("empty AwaitAll did not complete with success")
	}
}

func TestAwaitAllCompletesOnlyAfterEveryFuture(t *testing.T) {
	s := sched.New()
	futures := []*sched.Future[int]{
		sched.NewFuture[int](),
		sched.NewFuture[int](),
		sched.NewFuture[int](),
	}
	result := s.RunTask(sched.AwaitAll(futures[0], futures[1], futures[2]))

	// Fulfill out of order; completion must be unaffected by ordering.
	for _, i := range []int{2, 0} {
		futures[i].Fulfill(i)
		for s.ExecuteOne() {
		}
		if result.Fulfilled() {
			t.Fatal("AwaitAll completed before every future was fulfilled")
		}
	}

	futures[1].Fulfill(1)
	for s.ExecuteOne() {
	}

	if !result.Fulfilled() || result.Get() != sched.ResultSuccess {
		t.Fatal("AwaitAll did not complete after all futures")
	}
}
