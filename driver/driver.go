// Package driver executes finished statements against a database. A
// Connection accepts SQL carrying :name placeholders plus a parameter map,
// rewrites the placeholders into the dialect's positional form and
// dispatches to the underlying engine. Implementations exist for
// database/sql handles and pgx pools.
package driver

import (
	"context"
	"errors"
)

// Connection executes statements. Implementations are safe for concurrent
// use; pooling is the underlying handle's concern.
type Connection interface {
	// Query runs a row-returning statement.
	Query(ctx context.Context, sql string, params map[string]any) (Rows, error)

	// Exec runs a statement and reports affected rows.
	Exec(ctx context.Context, sql string, params map[string]any) (Result, error)

	// Prepare parses the statement once for repeated execution with
	// late-bound parameters.
	Prepare(ctx context.Context, sql string) (Statement, error)

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Close releases the connection and everything it caches.
	Close() error
}

// Statement is a prepared statement with named parameter slots. Binding an
// unreferenced name fails; executing with an unbound slot fails.
type Statement interface {
	BindValue(name string, value any) error
	BindParam(name string, value any, hint TypeHint) error
	Query(ctx context.Context) (Rows, error)
	Exec(ctx context.Context) (Result, error)
	Close() error
}

// Rows iterates a result set, shaped after database/sql.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// Result reports the outcome of a non-query statement.
type Result interface {
	RowsAffected() (int64, error)
}

var (
	// ErrMissingParam means the statement references a placeholder that has
	// no bound value.
	ErrMissingParam = errors.New("querybuilder: missing parameter")

	// ErrUnknownParam means a value was bound to a placeholder the
	// statement does not reference.
	ErrUnknownParam = errors.New("querybuilder: unknown parameter")

	// ErrBadParam means a bound value cannot be coerced to its type hint.
	ErrBadParam = errors.New("querybuilder: cannot coerce parameter")
)
