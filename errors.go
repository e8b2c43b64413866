package pga

import "fmt"

// SafeError wraps a cause with an error string safe for default production
// logging. The wrapped cause may still contain sensitive detail.
type SafeError struct {
	msg   string
	cause error
}

func (e *SafeError) Error() string { return e.msg }
func (e *SafeError) Unwrap() error { return e.cause }

// TxPhase identifies the transaction lifecycle step that failed.
type TxPhase string

const (
	PhaseAcquire   TxPhase = "acquire"
	PhaseBegin     TxPhase = "begin"
	PhaseStatement TxPhase = "statement"
	PhaseCommit    TxPhase = "commit"
	PhaseRollback  TxPhase = "rollback"
)

// TxError reports a transaction failure. Its message never includes SQL
// text or parameter values, so it is safe to log by default; the pgx cause
// is available via errors.Unwrap.
//
// When Phase is PhaseRollback, the reported error is the ROLLBACK failure
// and Triggering holds the error that forced the rollback in the first
// place. The rollback failure masks the triggering error, so errors.Is
// matches the rollback cause rather than the original: a failed ROLLBACK
// leaves the connection's transaction state unknown, which is the more
// urgent condition. Triggering is kept for diagnostics only.
type TxError struct {
	// Phase is the lifecycle step that failed.
	Phase TxPhase

	// Index is the zero-based position of the failing statement when
	// Phase is PhaseStatement, and -1 otherwise.
	Index int

	// Triggering is the error that initiated the rollback path when Phase
	// is PhaseRollback, and nil otherwise. It is intentionally not
	// reachable through Unwrap.
	Triggering error

	cause error
}

func (e *TxError) Error() string {
	if e.Phase == PhaseStatement {
		return fmt.Sprintf("pga: statement %d failed in transaction", e.Index)
	}
	return fmt.Sprintf("pga: transaction %s failed", string(e.Phase))
}

func (e *TxError) Unwrap() error { return e.cause }

// ParallelError reports the failing statement of a parallel batch by its
// input index. Like TxError, the message carries no SQL text or values.
type ParallelError struct {
	// Index is the zero-based position of the failing statement in the
	// submitted batch.
	Index int

	cause error
}

func (e *ParallelError) Error() string {
	return fmt.Sprintf("pga: statement %d failed in parallel batch", e.Index)
}

func (e *ParallelError) Unwrap() error { return e.cause }
