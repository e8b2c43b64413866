package pga

import "context"

// runParallel issues every statement concurrently, each as an independent
// one-shot the pool may serve from a different connection, and settles
// exactly once: with the fully populated results on success, or with the
// first failure to arrive plus the results as populated at that moment.
// Statements still in flight after a failure are neither awaited nor
// canceled; their deliveries land in the buffered channel and are dropped
// when it is collected.
//
// Results are positioned by input index, not completion order. The
// collector goroutine is the only writer of the results slice, so slot
// writes and the snapshot handed to settle are race-free.
func runParallel(ctx context.Context, db DB, stmts []Statement, settle func([]*Result, error)) {
	n := len(stmts)
	results := make([]*Result, n)
	if n == 0 {
		settle(results, nil)
		return
	}

	type delivery struct {
		index int
		res   *Result
		err   error
	}

	// Buffered to capacity so workers never block on delivery, even after
	// the collector stops consuming on an early failure.
	deliveries := make(chan delivery, n)
	for i, stmt := range stmts {
		go func(i int, stmt Statement) {
			res, err := queryOneShot(ctx, db, stmt)
			deliveries <- delivery{index: i, res: res, err: err}
		}(i, stmt)
	}

	for done := 0; done < n; {
		d := <-deliveries
		if d.err != nil {
			settle(results, &ParallelError{Index: d.index, cause: d.err})
			return
		}
		results[d.index] = d.res
		done++
	}
	settle(results, nil)
}
