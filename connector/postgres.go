package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/christopher1986/querybuilder/dialect"
	"github.com/christopher1986/querybuilder/driver"
)

func init() {
	Register("postgres", &postgresProvider{})
}

// postgresProvider connects to PostgreSQL through a pgx pool.
type postgresProvider struct{}

func (p *postgresProvider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *postgresProvider) HealthCheck(ctx context.Context, conn Connection) error {
	return conn.Health(ctx)
}

// Connect builds a pgx pool from the config and verifies it with a ping.
func (p *postgresProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool := cfg.Pool
	if pool.MaxOpen <= 0 {
		pool.MaxOpen = 10
	}
	if pool.MaxIdle < 0 {
		pool.MaxIdle = 5
	}
	if pool.MaxLifetime == 0 {
		pool.MaxLifetime = time.Hour
	}
	if pool.MaxIdleTime == 0 {
		pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConns = int32(pool.MaxOpen)
	poolCfg.MinConns = int32(pool.MaxIdle)
	poolCfg.MaxConnLifetime = pool.MaxLifetime
	poolCfg.MaxConnIdleTime = pool.MaxIdleTime

	pgpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pgpool.Ping(ctx); err != nil {
		pgpool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &postgresConnection{
		pool:    pgpool,
		maxOpen: pool.MaxOpen,
		drv:     driver.NewPgxConnection(pgpool, cfg.Conn),
	}, nil
}

func buildPostgresDSN(cfg Config) string {
	return NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		Build()
}

// postgresConnection is an established pgx pool plus the driver that
// executes statements on it.
type postgresConnection struct {
	pool    *pgxpool.Pool
	maxOpen int
	drv     *driver.PgxConnection
}

func (c *postgresConnection) Driver() driver.Connection {
	return c.drv
}

func (c *postgresConnection) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

// Pool exposes the underlying pgx pool.
func (c *postgresConnection) Pool() *pgxpool.Pool {
	return c.pool
}

// DB adapts the pool to database/sql. Each call returns a new *sql.DB
// owned by the caller.
func (c *postgresConnection) DB() *sql.DB {
	return stdlib.OpenDBFromPool(c.pool)
}

func (c *postgresConnection) Health(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("not connected")
	}
	return c.pool.Ping(ctx)
}

func (c *postgresConnection) Stats() ConnectionStats {
	if c.pool == nil {
		return ConnectionStats{}
	}
	s := c.pool.Stat()
	return ConnectionStats{
		MaxOpen:         c.maxOpen,
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		WaitCount:       s.EmptyAcquireCount(),
	}
}

func (c *postgresConnection) Close() error {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	return nil
}
