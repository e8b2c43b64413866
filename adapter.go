package pga

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Adapter is the package's public face: a wrapped pool plus the query,
// parallel, and transaction helpers layered over it.
//
// Every batch operation comes in two modes sharing one implementation. The
// plain method blocks the calling goroutine and returns (results, error);
// the Async variant returns immediately and later invokes its callback with
// the same outcome, exactly once, from another goroutine. The callback runs
// outside any lock; it may call back into the Adapter freely.
//
// An Adapter is safe for concurrent use. It holds no state of its own
// beyond the DB it wraps, so it may be copied or shared.
type Adapter struct {
	db DB
}

// New wraps a DB in an Adapter. The DB is usually a *Pool from Connect; in
// tests it is typically a *TestDB.
func New(db DB) *Adapter {
	return &Adapter{db: db}
}

// DB exposes the wrapped pool boundary, for callers that need operations
// the Adapter does not re-export.
func (a *Adapter) DB() DB { return a.db }

// Query executes one statement on a connection of the pool's choosing and
// returns its fully materialized outcome.
func (a *Adapter) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	return queryOneShot(ctx, a.db, Statement{Text: sql, Params: args})
}

// QueryAsync is Query in callback mode: it returns immediately and delivers
// the outcome to done exactly once, from another goroutine.
func (a *Adapter) QueryAsync(ctx context.Context, sql string, params []any, done func(*Result, error)) {
	go func() {
		done(a.Query(ctx, sql, params...))
	}()
}

// Exec forwards a statement that returns no rows to the pool.
func (a *Adapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return a.db.Exec(ctx, sql, args...)
}

// QueryRow forwards a single-row query to the pool. Scan surfaces
// pgx.ErrNoRows when the query matched nothing.
func (a *Adapter) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return a.db.QueryRow(ctx, sql, args...)
}

// Parallel issues every statement concurrently, each as an independent
// one-shot that the pool may serve from a different connection, and returns
// the results positioned by input index once all have completed. On failure
// it returns only the first error to arrive; statements still in flight are
// neither awaited nor canceled, and their outcomes are discarded.
//
// Parallel provides no atomicity and no ordering between statements. Use it
// for independent reads; anything that must see or produce a consistent
// snapshot belongs in Transact.
func (a *Adapter) Parallel(ctx context.Context, stmts []Statement) ([]*Result, error) {
	c := newCompletion[[]*Result]()
	runParallel(ctx, a.db, stmts, c.settle)
	results, err := c.wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelAsync is Parallel in callback mode. Unlike the blocking form, a
// failure hands done the results as populated at that moment, alongside
// the first error: completed slots hold their Results and the rest are
// nil. done is invoked exactly once even when several statements fail.
func (a *Adapter) ParallelAsync(ctx context.Context, stmts []Statement, done func([]*Result, error)) {
	go func() {
		c := newCompletion[[]*Result]()
		runParallel(ctx, a.db, stmts, c.settle)
		done(c.wait())
	}()
}

// Transact runs the statements strictly in order inside a single
// BEGIN/COMMIT on one connection held for the whole transaction. Statement
// N+1 is not sent until statement N's rows have been fully read. Any
// failure (BEGIN, a statement, or COMMIT) triggers a ROLLBACK, and the
// call reports an error with no results; partial results are never exposed.
// An empty statement list still runs BEGIN and COMMIT and returns an empty,
// non-nil results slice.
//
// The returned error is a *TxError carrying the failing phase and, for
// statement failures, the zero-based statement index.
func (a *Adapter) Transact(ctx context.Context, stmts []Statement) ([]*Result, error) {
	c := newCompletion[[]*Result]()
	runTransaction(ctx, a.db, stmts, c.settle)
	return c.wait()
}

// TransactAsync is Transact in callback mode: it returns immediately and
// delivers the outcome to done exactly once, from another goroutine.
func (a *Adapter) TransactAsync(ctx context.Context, stmts []Statement, done func([]*Result, error)) {
	go func() {
		c := newCompletion[[]*Result]()
		runTransaction(ctx, a.db, stmts, c.settle)
		done(c.wait())
	}()
}

// Ping verifies connectivity to the database.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}

// Close shuts down the wrapped pool, closing all pooled connections. It
// delegates to the pool's own shutdown and must not race in-flight
// operations the caller still cares about.
func (a *Adapter) Close() {
	a.db.Close()
}

// completion is the single-settle rendezvous between an internal operation
// and its caller-facing mode. The first settle wins; later calls are no-ops,
// so a racing error and success cannot both reach the caller.
type completion[T any] struct {
	once sync.Once
	ch   chan outcome[T]
}

type outcome[T any] struct {
	value T
	err   error
}

func newCompletion[T any]() *completion[T] {
	return &completion[T]{ch: make(chan outcome[T], 1)}
}

// settle records the outcome. Safe to call from any goroutine, any number
// of times; only the first call has an effect.
func (c *completion[T]) settle(value T, err error) {
	c.once.Do(func() {
		c.ch <- outcome[T]{value: value, err: err}
	})
}

// wait blocks until the operation settles and returns its outcome.
func (c *completion[T]) wait() (T, error) {
	o := <-c.ch
	return o.value, o.err
}
