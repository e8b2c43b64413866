package pga

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is one parameterized SQL statement: text plus its bound values
// in order. Statements are treated as immutable once constructed; the
// package never mutates Text or Params.
//
// Build statements with a composite literal, the SQL helper, or Statements.
type Statement struct {
	Text   string
	Params []any
}

// Statements wraps plain SQL strings as parameterless Statements, for
// Parallel and Transact call sites that need no bound values.
func Statements(texts ...string) []Statement {
	stmts := make([]Statement, len(texts))
	for i, text := range texts {
		stmts[i] = Statement{Text: text}
	}
	return stmts
}

// Result is one statement's fully materialized outcome: column names in
// result order, every row's values, and the command tag. Statements that
// return no rows (INSERT, UPDATE, DDL) produce a Result with empty Rows
// and a populated Tag.
type Result struct {
	Columns []string
	Rows    [][]any
	Tag     pgconn.CommandTag
}

// RowsAffected reports the number of rows affected by the statement.
func (r *Result) RowsAffected() int64 {
	return r.Tag.RowsAffected()
}

// collectRows drains a pgx cursor into a Result. The cursor is always
// closed, and row value slices are copied so the Result stays valid after
// the underlying connection moves on.
func collectRows(rows pgx.Rows) (*Result, error) {
	fds := rows.FieldDescriptions()
	columns := make([]string, len(fds))
	for i, fd := range fds {
		columns[i] = fd.Name
	}

	var data [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			rows.Close()
			return nil, err
		}
		row := make([]any, len(values))
		copy(row, values)
		data = append(data, row)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{Columns: columns, Rows: data, Tag: rows.CommandTag()}, nil
}

// queryOneShot runs a single statement on a connection of the pool's
// choosing and materializes the outcome.
func queryOneShot(ctx context.Context, db DB, stmt Statement) (*Result, error) {
	rows, err := db.Query(ctx, stmt.Text, stmt.Params...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// queryLeased is queryOneShot against a held connection lease, for callers
// that need statement affinity (transactions).
func queryLeased(ctx context.Context, conn Conn, stmt Statement) (*Result, error) {
	rows, err := conn.Query(ctx, stmt.Text, stmt.Params...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}
