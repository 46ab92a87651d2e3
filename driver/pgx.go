package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/christopher1986/querybuilder/dialect"
)

// PgxConnection executes statements over a pgxpool.Pool. The pool caches
// prepared statements internally, so Prepare returns a client-side
// statement that re-submits the rewritten text on each run.
type PgxConnection struct {
	observer
	rewriter
	pool *pgxpool.Pool
}

// NewPgxConnection wraps pool. The dialect is always postgres.
func NewPgxConnection(pool *pgxpool.Pool, opts ConnOptions) *PgxConnection {
	return &PgxConnection{
		observer: newObserver(opts),
		rewriter: newRewriter(dialect.NewPostgresDialect()),
		pool:     pool,
	}
}

// Dialect returns the postgres dialect.
func (c *PgxConnection) Dialect() dialect.Dialect {
	return c.dialect
}

// Pool exposes the underlying pool for stats.
func (c *PgxConnection) Pool() *pgxpool.Pool {
	return c.pool
}

func (c *PgxConnection) Query(ctx context.Context, sqlText string, params map[string]any) (Rows, error) {
	bound, names := c.rebind(sqlText)
	args, err := resolveArgs(names, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := c.pool.Query(ctx, bound, args...)
	c.observe(ctx, "query", sqlText, bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &pgxRows{rows: rows}, nil
}

func (c *PgxConnection) Exec(ctx context.Context, sqlText string, params map[string]any) (Result, error) {
	bound, names := c.rebind(sqlText)
	args, err := resolveArgs(names, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	tag, err := c.pool.Exec(ctx, bound, args...)
	c.observe(ctx, "exec", sqlText, bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return pgxResult{tag: tag}, nil
}

func (c *PgxConnection) Prepare(_ context.Context, sqlText string) (Statement, error) {
	bound, names := c.rebind(sqlText)
	return &pgxStatement{
		binding: newBinding(names),
		conn:    c,
		text:    sqlText,
		bound:   bound,
	}, nil
}

func (c *PgxConnection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *PgxConnection) Close() error {
	c.pool.Close()
	return nil
}

type pgxStatement struct {
	binding
	conn  *PgxConnection
	text  string
	bound string
}

func (s *pgxStatement) Query(ctx context.Context) (Rows, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := s.conn.pool.Query(ctx, s.bound, args...)
	s.conn.observe(ctx, "stmt.query", s.text, s.bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &pgxRows{rows: rows}, nil
}

func (s *pgxStatement) Exec(ctx context.Context) (Result, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	tag, err := s.conn.pool.Exec(ctx, s.bound, args...)
	s.conn.observe(ctx, "stmt.exec", s.text, s.bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return pgxResult{tag: tag}, nil
}

// Close is a no-op; nothing is held client-side.
func (s *pgxStatement) Close() error {
	return nil
}

type pgxRows struct {
	rows   pgx.Rows
	fields []pgconn.FieldDescription
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *pgxRows) Columns() ([]string, error) {
	if r.fields == nil {
		r.fields = r.rows.FieldDescriptions()
	}
	columns := make([]string, len(r.fields))
	for i, fd := range r.fields {
		columns[i] = fd.Name
	}
	return columns, nil
}

func (r *pgxRows) Err() error   { return r.rows.Err() }
func (r *pgxRows) Close() error { r.rows.Close(); return nil }

type pgxResult struct {
	tag pgconn.CommandTag
}

func (r pgxResult) RowsAffected() (int64, error) { return r.tag.RowsAffected(), nil }

// Assert that PgxConnection implements the Connection interface.
var _ Connection = (*PgxConnection)(nil)
