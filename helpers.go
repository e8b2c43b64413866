package pga

import "context"

// HealthStatus is the response type for health check endpoints.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheck verifies database connectivity and returns a status suitable for
// health check API endpoints.
func HealthCheck(ctx context.Context, db DB) (*HealthStatus, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, &SafeError{msg: "pga: health check failed", cause: err}
	}

	return &HealthStatus{Status: "ok", Database: "postgres"}, nil
}

// WithTx executes fn inside BEGIN/COMMIT on a connection leased for the
// whole call, for transactional work that does not fit a fixed statement
// list. If fn returns an error or panics, the transaction is rolled back;
// a panic is re-raised after the rollback. Otherwise it is committed.
//
// The lease is released when WithTx returns; fn must not call Release or
// retain the Conn. Failure semantics match Transact: ROLLBACK runs under
// its own deadline, and a rollback failure is reported instead of the error
// that triggered it.
func WithTx(ctx context.Context, db DB, fn func(Conn) error) (err error) {
	conn, err := db.Acquire(ctx)
	if err != nil {
		if conn != nil {
			conn.Release()
		}
		return &TxError{Phase: PhaseAcquire, Index: -1, cause: err}
	}
	defer conn.Release()

	if _, beginErr := conn.Exec(ctx, "BEGIN"); beginErr != nil {
		return rollbackAfter(conn, &TxError{Phase: PhaseBegin, Index: -1, cause: beginErr})
	}

	defer func() {
		if p := recover(); p != nil {
			_ = rollbackLeased(conn)
			panic(p)
		}
		if err != nil {
			err = rollbackAfter(conn, err)
		}
	}()

	if err = fn(conn); err != nil {
		return err
	}

	if _, commitErr := conn.Exec(ctx, "COMMIT"); commitErr != nil {
		err = &TxError{Phase: PhaseCommit, Index: -1, cause: commitErr}
		return err
	}

	return nil
}
