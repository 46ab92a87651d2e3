// Package querybuilder assembles SQL statements through fluent builders and
// executes them on pluggable database drivers.
//
// Statements are built from named parts. Rendering joins the parts in a
// fixed clause order and caches the result until a part changes. Conditions
// are composite expression trees combined with AND and OR, produced by an
// expression builder.
//
// Execution is optional. A builder constructed with New renders statements
// without a database; Open connects through a registered provider and runs
// the same statements with named parameters, structured logging and a
// statement journal.
package querybuilder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/christopher1986/querybuilder/connector"
	"github.com/christopher1986/querybuilder/driver"
	"github.com/christopher1986/querybuilder/expr"
	"github.com/christopher1986/querybuilder/naming"
	"github.com/christopher1986/querybuilder/stmt"
)

// ErrNotConnected is returned by execution methods on a builder that has no
// database connection.
var ErrNotConnected = errors.New("querybuilder: not connected")

// Options configures a QueryBuilder.
type Options struct {
	// Conn executes statements. Leave nil for render-only use.
	Conn driver.Connection

	// Naming derives table and column names for the entity helpers.
	// Defaults to snake_case with plural tables.
	Naming naming.Strategy

	// Logger receives connection-level events. Defaults to a discard
	// logger.
	Logger *slog.Logger

	// QueryTimeout bounds each Query, Exec and Prepare call when positive.
	QueryTimeout time.Duration
}

// QueryBuilder creates statements and runs them on a database connection.
type QueryBuilder struct {
	conn    driver.Connection
	pool    connector.Connection
	exprs   *expr.Builder
	naming  naming.Strategy
	logger  *slog.Logger
	timeout time.Duration
}

// New returns a render-only QueryBuilder with default settings.
func New() *QueryBuilder {
	return NewWith(Options{})
}

// NewWith returns a QueryBuilder configured by opts.
func NewWith(opts Options) *QueryBuilder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	strategy := opts.Naming
	if strategy == nil {
		strategy = naming.NewSnakeCase()
	}
	return &QueryBuilder{
		conn:    opts.Conn,
		exprs:   expr.NewBuilder(),
		naming:  strategy,
		logger:  logger,
		timeout: opts.QueryTimeout,
	}
}

// Open connects through the named provider and returns an executing
// QueryBuilder. Providers register themselves when their package is
// imported; the postgres provider ships with the connector package.
func Open(ctx context.Context, provider string, cfg connector.Config) (*QueryBuilder, error) {
	c, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}

	qb := NewWith(Options{
		Conn:         conn.Driver(),
		Logger:       cfg.Conn.Logger,
		QueryTimeout: cfg.QueryTimeout,
	})
	qb.pool = conn
	qb.logger.Info("database connected",
		slog.String("provider", provider),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))
	return qb, nil
}

// Expr returns the expression builder used to compose conditions.
func (qb *QueryBuilder) Expr() *expr.Builder {
	return qb.exprs
}

// Select starts a SELECT statement over the given columns.
func (qb *QueryBuilder) Select(columns ...string) *stmt.Select {
	return stmt.NewSelect(columns...)
}

// Insert starts an INSERT statement into the given table.
func (qb *QueryBuilder) Insert(table string) *stmt.Insert {
	return stmt.NewInsert(table)
}

// Update starts an UPDATE statement against the given table. The alias may
// be blank.
func (qb *QueryBuilder) Update(table, alias string) *stmt.Update {
	return stmt.NewUpdate(table, alias)
}

// Delete starts a DELETE statement against the given table. The alias may
// be blank.
func (qb *QueryBuilder) Delete(table, alias string) *stmt.Delete {
	return stmt.NewDelete(table, alias)
}

// SelectEntity starts a SELECT over the table derived from the entity name,
// so SelectEntity("BlogPost") reads from blog_posts under the default
// strategy.
func (qb *QueryBuilder) SelectEntity(entity string, columns ...string) *stmt.Select {
	return stmt.NewSelect(columns...).From(qb.naming.TableName(entity), "")
}

// InsertEntity starts an INSERT into the table derived from the entity name.
func (qb *QueryBuilder) InsertEntity(entity string) *stmt.Insert {
	return stmt.NewInsert(qb.naming.TableName(entity))
}

// UpdateEntity starts an UPDATE against the table derived from the entity
// name.
func (qb *QueryBuilder) UpdateEntity(entity string) *stmt.Update {
	return stmt.NewUpdate(qb.naming.TableName(entity), "")
}

// DeleteEntity starts a DELETE against the table derived from the entity
// name.
func (qb *QueryBuilder) DeleteEntity(entity string) *stmt.Delete {
	return stmt.NewDelete(qb.naming.TableName(entity), "")
}

// Column converts a Go field name to a column name under the configured
// naming strategy.
func (qb *QueryBuilder) Column(field string) string {
	return qb.naming.ColumnName(field)
}

// Query renders the statement and runs it, returning the matching rows.
func (qb *QueryBuilder) Query(ctx context.Context, s stmt.Statement) (driver.Rows, error) {
	if qb.conn == nil {
		return nil, ErrNotConnected
	}
	sqlText, err := s.SQL()
	if err != nil {
		return nil, err
	}
	if qb.timeout <= 0 {
		return qb.conn.Query(ctx, sqlText, s.Parameters())
	}

	ctx, cancel := context.WithTimeout(ctx, qb.timeout)
	rows, err := qb.conn.Query(ctx, sqlText, s.Parameters())
	if err != nil {
		cancel()
		return nil, err
	}
	return &timedRows{Rows: rows, cancel: cancel}, nil
}

// Exec renders the statement and runs it, returning the affected row count.
func (qb *QueryBuilder) Exec(ctx context.Context, s stmt.Statement) (driver.Result, error) {
	if qb.conn == nil {
		return nil, ErrNotConnected
	}
	sqlText, err := s.SQL()
	if err != nil {
		return nil, err
	}
	if qb.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, qb.timeout)
		defer cancel()
	}
	return qb.conn.Exec(ctx, sqlText, s.Parameters())
}

// Prepare renders the statement once for repeated execution with bound
// parameters.
func (qb *QueryBuilder) Prepare(ctx context.Context, s stmt.Statement) (driver.Statement, error) {
	if qb.conn == nil {
		return nil, ErrNotConnected
	}
	sqlText, err := s.SQL()
	if err != nil {
		return nil, err
	}
	if qb.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, qb.timeout)
		defer cancel()
	}
	return qb.conn.Prepare(ctx, sqlText)
}

// Conn returns the executing connection, or nil for render-only builders.
func (qb *QueryBuilder) Conn() driver.Connection {
	return qb.conn
}

// Health verifies the database is reachable.
func (qb *QueryBuilder) Health(ctx context.Context) error {
	if qb.conn == nil {
		return ErrNotConnected
	}
	return qb.conn.Ping(ctx)
}

// Stats reports pool usage for builders opened through a provider. Builders
// handed a bare connection report zero values.
func (qb *QueryBuilder) Stats() connector.ConnectionStats {
	if qb.pool == nil {
		return connector.ConnectionStats{}
	}
	return qb.pool.Stats()
}

// Close releases the connection. The builder can still render statements
// afterwards.
func (qb *QueryBuilder) Close() error {
	if qb.pool != nil {
		err := qb.pool.Close()
		qb.pool = nil
		qb.conn = nil
		return err
	}
	if qb.conn != nil {
		err := qb.conn.Close()
		qb.conn = nil
		return err
	}
	return nil
}

// timedRows releases the query timeout when the rows are closed. Cancelling
// earlier would abort the caller's iteration.
type timedRows struct {
	driver.Rows
	cancel context.CancelFunc
}

func (r *timedRows) Close() error {
	err := r.Rows.Close()
	r.cancel()
	return err
}
