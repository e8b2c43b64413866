package pga

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pool boundary this package builds on. It is the narrow subset
// of pgxpool the Adapter needs: one-shot statement execution served from
// any pooled connection, and exclusive connection leases for transactions.
//
// All methods take context.Context so cancellation propagates to in-flight
// database operations; this package adds no timeouts of its own and
// forwards the context to pgx verbatim.
//
// Prefer depending on DB rather than *Pool so application code remains
// testable (via TestDB) and decoupled from pool operational concerns.
// Pool management methods (Stat, config knobs) are intentionally not part
// of this contract; they belong on the concrete Pool type. Close is
// included to support graceful shutdown through the interface.
type DB interface {
	// Acquire leases a dedicated connection from the pool. The caller
	// owns the lease exclusively until it calls Release, and must release
	// it exactly once.
	Acquire(ctx context.Context) (Conn, error)

	// Exec executes a one-shot statement that does not return rows, on a
	// connection of the pool's choosing.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a one-shot statement that returns rows, on a
	// connection of the pool's choosing. The caller must close the
	// returned Rows when done.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow executes a one-shot statement expected to return at most
	// one row. If no rows match, row.Scan() returns pgx.ErrNoRows.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases all pool resources. Call once during graceful shutdown.
	Close()
}

// Conn is an exclusively-owned lease on one pooled connection. Every
// statement issued through a Conn runs on that same connection, which is
// what makes BEGIN/COMMIT meaningful across statements.
//
// A Conn is owned by exactly one caller for its lifetime. Release returns
// the connection to the pool and must be called exactly once; the Conn
// must not be used afterward.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
}
