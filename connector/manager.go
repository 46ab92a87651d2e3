package connector

import (
	"context"
	"fmt"
	"sync"
)

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager maintains the registry of database providers.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register adds a provider to the global registry. Providers register
// themselves from init, so importing a provider package is enough.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Providers returns the names of all registered providers.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	return names
}

// New returns a Connector for the named provider configured with config.
func New(name string, config Config) (Connector, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	return &standardConnector{provider: provider, config: config}, nil
}

type standardConnector struct {
	provider Provider
	config   Config
}

// Connect establishes a connection. When the config carries retry settings
// they are applied, otherwise a single attempt is made.
func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	if c.config.Retry != nil {
		return retryConnect(ctx, c.config.Retry.Options(), c.connect)
	}
	return c.connect(ctx)
}

// ConnectWithRetry establishes a connection using the given retry options,
// overriding any retry settings in the config.
func (c *standardConnector) ConnectWithRetry(ctx context.Context, opts RetryOptions) (Connection, error) {
	return retryConnect(ctx, opts, c.connect)
}

func (c *standardConnector) connect(ctx context.Context) (Connection, error) {
	return c.provider.Connect(ctx, c.config)
}

func (c *standardConnector) Close() error {
	return nil
}
