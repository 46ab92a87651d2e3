// Package connector establishes database connections from declarative
// configuration. Providers register themselves by name; a Connector wraps a
// provider with retry and timeout handling and yields Connections that
// expose an executing driver plus pool health and stats.
package connector

import (
	"context"

	"github.com/christopher1986/querybuilder/dialect"
	"github.com/christopher1986/querybuilder/driver"
)

// Connection is an established database handle.
type Connection interface {
	// Driver returns the executing connection statements run on.
	Driver() driver.Connection

	// Dialect identifies the SQL flavor spoken by the connection.
	Dialect() dialect.Dialect

	// Health verifies the underlying pool is reachable.
	Health(ctx context.Context) error

	// Stats reports pool usage.
	Stats() ConnectionStats

	// Close tears the pool down.
	Close() error
}

// Connector produces Connections for one configuration.
type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, opts RetryOptions) (Connection, error)
	Close() error
}

// Provider knows how to connect to one database family.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
	HealthCheck(ctx context.Context, conn Connection) error
}
