// Package pga is a convenience layer over a pgx v5 connection pool. It
// adds single-query, parallel fan-out, and multi-statement transaction
// helpers plus a small SQL templating helper, and leaves connection
// lifecycle, wire protocol, and query execution entirely to pgxpool.
//
// A few guarantees hold across the package. A leased connection is
// released exactly once on every exit path. Transaction statements run
// strictly in input order on one connection, and a statement never starts
// before the previous statement's outcome is known. Parallel results are
// positioned by input index regardless of completion order. Every
// operation settles its caller-visible completion exactly once, as a
// callback invocation or an unblocked return. Connect-path errors are
// safe to log by default.
//
// Parallel execution provides no atomicity or ordering between statements
// and must only be used for independent statements. Transactions provide
// no savepoints, nesting, or isolation-level configuration.
package pga
