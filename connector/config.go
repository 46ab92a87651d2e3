package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/christopher1986/querybuilder/driver"
)

// Config describes one database connection.
type Config struct {
	Driver         string            `json:"driver" yaml:"driver" koanf:"driver"`
	Host           string            `json:"host" yaml:"host" koanf:"host"`
	Port           int               `json:"port" yaml:"port" koanf:"port"`
	Database       string            `json:"database" yaml:"database" koanf:"database"`
	Username       string            `json:"username" yaml:"username" koanf:"username"`
	Password       string            `json:"password" yaml:"password" koanf:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode" koanf:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params" koanf:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool" koanf:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout" koanf:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout" koanf:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty" koanf:"retry"`

	// Conn carries runtime-only execution options such as the logger and
	// journal. It never comes from a file.
	Conn driver.ConnOptions `json:"-" yaml:"-" koanf:"-"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" koanf:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" koanf:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime" koanf:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time" koanf:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" koanf:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay" koanf:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" koanf:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff" koanf:"backoff"`
}

// Options converts the config into the retry loop's options.
func (rc *RetryConfig) Options() RetryOptions {
	return RetryOptions{
		MaxRetries: rc.MaxRetries,
		BaseDelay:  rc.BaseDelay,
		MaxDelay:   rc.MaxDelay,
		Backoff:    rc.Backoff,
	}
}

// defaults are the baseline configuration values. File and environment
// sources layer on top.
func defaults() map[string]any {
	return map[string]any{
		"driver":             "postgres",
		"host":               "localhost",
		"port":               5432,
		"ssl_mode":           "prefer",
		"pool.max_open":      10,
		"pool.max_idle":      5,
		"pool.max_lifetime":  "1h",
		"pool.max_idle_time": "30m",
	}
}

// LoadConfig builds a Config by layering an optional YAML file and QB_
// environment variables over the defaults. Environment keys use a double
// underscore to nest, so QB_POOL__MAX_OPEN overrides pool.max_open.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("QB_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "QB_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
