package sched

// AwaitAll returns a task that observes an ordered list of futures one at a
// time and completes with success once every one is fulfilled.
//
// It deliberately does not poll all futures concurrently: the work behind
// them was already submitted and runs independently; this task merely
// sequences the observation of their completions. Waiting on the cursor
// future cannot delay any other: the scheduler skips this task until that
// future is fulfilled, then the next step moves the cursor.
func AwaitAll(futures ...Awaitable) Task {
	return &awaitAll{futures: futures}
}

type awaitAll struct {
	futures []Awaitable
	cursor  int
}

func (t *awaitAll) Step() TaskStatus {
	if t.cursor < len(t.futures) {
		f := t.futures[t.cursor]
		t.cursor++
		return Wait(f)
	}
	return Complete(ResultSuccess)
}
