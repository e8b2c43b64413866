package pga

// sequence drives items through worker strictly in input order, one at a
// time. The worker receives the accumulator, the current item, and a
// continuation; invoking the continuation with the (possibly grown)
// accumulator schedules the next step. A worker that never invokes its
// continuation halts the sequence permanently; that is the caller's
// mechanism for branching away on failure, and the driver itself performs
// no error handling. Once the items are exhausted, done receives the final
// accumulator, exactly once. An empty items slice completes without the
// worker ever running.
//
// Every step, including the first, runs on a fresh goroutine: a
// continuation call never grows the invoking stack, and the accumulator is
// handed off step to step under exclusive ownership, so no step observes
// concurrent mutation.
func sequence[T, A any](items []T, acc A, worker func(acc A, item T, next func(A)), done func(A)) {
	var step func(i int, acc A)
	step = func(i int, acc A) {
		if i >= len(items) {
			done(acc)
			return
		}
		worker(acc, items[i], func(next A) {
			go step(i+1, next)
		})
	}
	go step(0, acc)
}
