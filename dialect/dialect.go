// Package dialect abstracts the identifier quoting, placeholder style and
// literal rendering that differ between SQL engines. Statement builders stay
// dialect-free; the execution layer applies a dialect when it rewrites named
// parameters and when it interpolates journal output.
package dialect

import (
	"fmt"
	"strings"
)

type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	RenderValue(v any) string
}

// ByName resolves a dialect from a driver or engine name.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), nil
	case "mysql", "mariadb":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	}
	return nil, fmt.Errorf("dialect: unknown dialect %q", name)
}
