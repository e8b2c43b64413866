package pga

import (
	"context"
	"time"
)

const defaultRollbackTimeout = 5 * time.Second

// runTransaction executes stmts strictly in order inside a single
// BEGIN/COMMIT on one leased connection and settles exactly once: with the
// index-aligned results when every statement succeeded, or with an error
// after a ROLLBACK. Partial results are discarded on failure.
//
// Acquisition failure is reported directly: no transaction was opened, so
// nothing is rolled back. A partial handle returned alongside the error is
// still released so the pool's bookkeeping stays intact.
func runTransaction(ctx context.Context, db DB, stmts []Statement, settle func([]*Result, error)) {
	conn, err := db.Acquire(ctx)
	if err != nil {
		if conn != nil {
			conn.Release()
		}
		settle(nil, &TxError{Phase: PhaseAcquire, Index: -1, cause: err})
		return
	}

	t := &txCoordinator{ctx: ctx, conn: conn, settle: settle}
	t.begin(stmts)
}

// txCoordinator owns one connection lease for the lifetime of one
// transaction. Exactly one of its steps is live at any moment (each step
// either finishes the transaction or hands off to the next), so its fields
// need no locking.
type txCoordinator struct {
	ctx      context.Context
	conn     Conn
	settle   func([]*Result, error)
	released bool
}

// release returns the lease to the pool, exactly once across all exit paths.
func (t *txCoordinator) release() {
	if t.released {
		return
	}
	t.released = true
	t.conn.Release()
}

func (t *txCoordinator) begin(stmts []Statement) {
	if _, err := t.conn.Exec(t.ctx, "BEGIN"); err != nil {
		t.rollback(&TxError{Phase: PhaseBegin, Index: -1, cause: err})
		return
	}
	t.execute(stmts)
}

// execute delegates statement-by-statement execution to the sequential
// driver. A failing statement branches to rollback instead of invoking the
// continuation, so remaining statements are never attempted.
func (t *txCoordinator) execute(stmts []Statement) {
	acc := make([]*Result, 0, len(stmts))
	sequence(stmts, acc, func(results []*Result, stmt Statement, next func([]*Result)) {
		res, err := queryLeased(t.ctx, t.conn, stmt)
		if err != nil {
			t.rollback(&TxError{Phase: PhaseStatement, Index: len(results), cause: err})
			return
		}
		next(append(results, res))
	}, t.commit)
}

func (t *txCoordinator) commit(results []*Result) {
	if _, err := t.conn.Exec(t.ctx, "COMMIT"); err != nil {
		// A failed COMMIT leaves the transaction's fate ambiguous;
		// ROLLBACK is the safe corrective.
		t.rollback(&TxError{Phase: PhaseCommit, Index: -1, cause: err})
		return
	}
	t.release()
	t.settle(results, nil)
}

func (t *txCoordinator) rollback(trigger error) {
	err := rollbackAfter(t.conn, trigger)
	t.release()
	t.settle(nil, err)
}

// rollbackLeased issues ROLLBACK on the lease. The caller's context may
// already be canceled, often as the very reason the transaction failed, so
// ROLLBACK runs under its own deadline. It is attempted once, never retried.
func rollbackLeased(conn Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRollbackTimeout)
	defer cancel()

	_, err := conn.Exec(ctx, "ROLLBACK")
	return err
}

// rollbackAfter rolls the transaction back and reports trigger, unless the
// ROLLBACK itself fails, in which case the rollback error is reported
// instead (see TxError for the masking semantics).
func rollbackAfter(conn Conn, trigger error) error {
	if rbErr := rollbackLeased(conn); rbErr != nil {
		return &TxError{Phase: PhaseRollback, Index: -1, Triggering: trigger, cause: rbErr}
	}
	return trigger
}
