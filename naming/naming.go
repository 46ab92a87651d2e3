// Package naming derives table and column names from Go identifiers.
package naming

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is shared; the client is safe for concurrent use once built.
var pluralizeClient = pluralizer.NewClient()

// Strategy converts Go identifiers to database names.
type Strategy interface {
	// TableName converts an entity name to a table name.
	TableName(entity string) string

	// ColumnName converts a field name to a column name.
	ColumnName(field string) string

	// IsPlural reports whether table names come out pluralized.
	IsPlural() bool
}

// SnakeCase maps identifiers to snake_case. Table names are pluralized
// unless SingularTables is set.
type SnakeCase struct {
	SingularTables bool
}

// NewSnakeCase returns the default strategy: snake_case columns and plural
// snake_case tables, so User becomes users and FirstName becomes first_name.
func NewSnakeCase() *SnakeCase {
	return &SnakeCase{}
}

func (s *SnakeCase) TableName(entity string) string {
	name := ToSnake(entity)
	if s.SingularTables {
		return name
	}
	return Plural(name)
}

func (s *SnakeCase) ColumnName(field string) string {
	return ToSnake(field)
}

func (s *SnakeCase) IsPlural() bool {
	return !s.SingularTables
}

// Verbatim passes identifiers through unchanged.
type Verbatim struct{}

func (Verbatim) TableName(entity string) string { return entity }
func (Verbatim) ColumnName(field string) string { return field }
func (Verbatim) IsPlural() bool                 { return false }

// ToSnake converts an identifier in any common convention to snake_case.
// Acronym runs stay together, so HTTPServer becomes http_server.
func ToSnake(name string) string {
	if name == "" {
		return ""
	}

	// frequent single-token acronyms skip the scan
	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "API":
		return "api"
	case "SQL":
		return "sql"
	case "JSON":
		return "json"
	case "HTTP":
		return "http"
	case "HTML":
		return "html"
	}

	if strings.Contains(name, "_") && !hasUpper(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// break before an uppercase rune when it starts a new word:
			// after a lowercase/digit (userID -> user_id), or at the end of
			// an acronym run (HTTPServer -> http_server)
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteByte('_')
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// Plural converts a singular noun to its plural form.
func Plural(name string) string {
	if name == "" {
		return ""
	}
	return pluralizeClient.Pluralize(name, 2, false)
}

// Singular converts a plural noun to its singular form.
func Singular(name string) string {
	if name == "" {
		return ""
	}
	return pluralizeClient.Pluralize(name, 1, false)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
