package driver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/christopher1986/querybuilder/cache"
	"github.com/christopher1986/querybuilder/dialect"
)

// SQLConnection executes statements over a database/sql handle. With a
// statement cache configured, Prepare reuses server-side statements across
// calls and eviction closes them.
type SQLConnection struct {
	observer
	rewriter
	db    *sql.DB
	stmts *cache.StatementCache
}

// NewSQLConnection wraps db for the given dialect.
func NewSQLConnection(db *sql.DB, d dialect.Dialect, opts ConnOptions) *SQLConnection {
	c := &SQLConnection{
		observer: newObserver(opts),
		rewriter: newRewriter(d),
		db:       db,
	}
	if opts.StmtCache > 0 {
		c.stmts = cache.NewStatementCache(opts.StmtCache)
	}
	return c
}

// Dialect returns the dialect the connection rewrites placeholders for.
func (c *SQLConnection) Dialect() dialect.Dialect {
	return c.dialect
}

// DB exposes the underlying handle for pool tuning and stats.
func (c *SQLConnection) DB() *sql.DB {
	return c.db
}

func (c *SQLConnection) Query(ctx context.Context, sqlText string, params map[string]any) (Rows, error) {
	bound, names := c.rebind(sqlText)
	args, err := resolveArgs(names, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, bound, args...)
	c.observe(ctx, "query", sqlText, bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

func (c *SQLConnection) Exec(ctx context.Context, sqlText string, params map[string]any) (Result, error) {
	bound, names := c.rebind(sqlText)
	args, err := resolveArgs(names, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := c.db.ExecContext(ctx, bound, args...)
	c.observe(ctx, "exec", sqlText, bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return sqlResult{res: res}, nil
}

func (c *SQLConnection) Prepare(ctx context.Context, sqlText string) (Statement, error) {
	bound, names := c.rebind(sqlText)
	prepare := func(ctx context.Context) (*sql.Stmt, error) {
		return c.db.PrepareContext(ctx, bound)
	}

	var (
		stmt   *sql.Stmt
		cached bool
		err    error
	)
	if c.stmts != nil {
		stmt, err = c.stmts.GetOrPrepare(ctx, cache.Key(c.dialect.Name(), bound), prepare)
		cached = true
	} else {
		stmt, err = prepare(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}

	return &sqlStatement{
		binding: newBinding(names),
		conn:    c,
		stmt:    stmt,
		text:    sqlText,
		bound:   bound,
		cached:  cached,
	}, nil
}

func (c *SQLConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *SQLConnection) Close() error {
	if c.stmts != nil {
		_ = c.stmts.Close()
	}
	return c.db.Close()
}

type sqlStatement struct {
	binding
	conn   *SQLConnection
	stmt   *sql.Stmt
	text   string
	bound  string
	cached bool
}

func (s *sqlStatement) Query(ctx context.Context) (Rows, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := s.stmt.QueryContext(ctx, args...)
	s.conn.observe(ctx, "stmt.query", s.text, s.bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

func (s *sqlStatement) Exec(ctx context.Context) (Result, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := s.stmt.ExecContext(ctx, args...)
	s.conn.observe(ctx, "stmt.exec", s.text, s.bound, args, start, err)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return sqlResult{res: res}, nil
}

// Close releases the statement unless the connection's cache owns it.
func (s *sqlStatement) Close() error {
	if s.cached {
		return nil
	}
	return s.stmt.Close()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Err() error                 { return r.rows.Err() }
func (r *sqlRows) Close() error               { return r.rows.Close() }

type sqlResult struct {
	res sql.Result
}

func (r sqlResult) RowsAffected() (int64, error) { return r.res.RowsAffected() }

// Assert that SQLConnection implements the Connection interface.
var _ Connection = (*SQLConnection)(nil)
