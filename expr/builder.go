package expr

import (
	"fmt"
	"strings"
)

// Builder produces conditions and composites from named operations. It is
// stateless, so a single instance can be shared across goroutines.
type Builder struct{}

// NewBuilder returns an expression builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// And returns a fresh composite joining parts with AND. Builders never merge
// into existing trees; accumulation is the statement's job.
func (b *Builder) And(parts ...Expression) *Composite {
	return NewAnd(parts...)
}

// Or returns a fresh composite joining parts with OR.
func (b *Builder) Or(parts ...Expression) *Composite {
	return NewOr(parts...)
}

// SubqueryFunc supplies a subquery for InQuery and NotInQuery. Capture any
// context the statement needs in the closure.
type SubqueryFunc func() any

// Eq renders "name = value". The value is emitted verbatim, so pass a
// placeholder such as ":age" rather than user input.
func (b *Builder) Eq(name, value string) Condition {
	return comparison(name, "=", value)
}

// Neq renders "name <> value".
func (b *Builder) Neq(name, value string) Condition {
	return comparison(name, "<>", value)
}

// Gt renders "name > value".
func (b *Builder) Gt(name, value string) Condition {
	return comparison(name, ">", value)
}

// Gte renders "name >= value".
func (b *Builder) Gte(name, value string) Condition {
	return comparison(name, ">=", value)
}

// Lt renders "name < value".
func (b *Builder) Lt(name, value string) Condition {
	return comparison(name, "<", value)
}

// Lte renders "name <= value".
func (b *Builder) Lte(name, value string) Condition {
	return comparison(name, "<=", value)
}

// Avg renders "AVG(args)" with the arguments joined by ", ".
func (b *Builder) Avg(args ...string) Condition {
	return aggregate("AVG", args)
}

// Sum renders "SUM(args)".
func (b *Builder) Sum(args ...string) Condition {
	return aggregate("SUM", args)
}

// Max renders "MAX(args)".
func (b *Builder) Max(args ...string) Condition {
	return aggregate("MAX", args)
}

// Min renders "MIN(args)".
func (b *Builder) Min(args ...string) Condition {
	return aggregate("MIN", args)
}

// Count renders "COUNT(name)".
func (b *Builder) Count(name string) Condition {
	return Condition("COUNT(" + name + ")")
}

// In renders "name IN (v1, v2, ...)". Values are stringified verbatim, so
// quote or parameterize them yourself.
func (b *Builder) In(name string, values ...any) Condition {
	return inList(name, "IN", values)
}

// NotIn renders "name NOT IN (v1, v2, ...)".
func (b *Builder) NotIn(name string, values ...any) Condition {
	return inList(name, "NOT IN", values)
}

// InQuery renders "name IN (subquery)". The callback runs synchronously and
// must return a Renderable; any other result fails with ErrUnexpectedResult
// before any text is produced.
func (b *Builder) InQuery(name string, sub SubqueryFunc) (Condition, error) {
	return inQuery(name, "IN", sub)
}

// NotInQuery renders "name NOT IN (subquery)".
func (b *Builder) NotInQuery(name string, sub SubqueryFunc) (Condition, error) {
	return inQuery(name, "NOT IN", sub)
}

// Between renders "value BETWEEN lower AND upper".
func (b *Builder) Between(value, lower, upper string) Condition {
	return Condition(value + " BETWEEN " + lower + " AND " + upper)
}

// IsNull renders "name IS NULL".
func (b *Builder) IsNull(name string) Condition {
	return Condition(name + " IS NULL")
}

// IsNotNull renders "name IS NOT NULL".
func (b *Builder) IsNotNull(name string) Condition {
	return Condition(name + " IS NOT NULL")
}

func comparison(name, op, value string) Condition {
	return Condition(name + " " + op + " " + value)
}

func aggregate(fn string, args []string) Condition {
	return Condition(fn + "(" + strings.Join(args, ", ") + ")")
}

func inList(name, op string, values []any) Condition {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return Condition(name + " " + op + " (" + strings.Join(parts, ", ") + ")")
}

func inQuery(name, op string, sub SubqueryFunc) (Condition, error) {
	if sub == nil {
		return "", fmt.Errorf("%w: nil subquery callback", ErrInvalidArgument)
	}
	result := sub()
	r, ok := result.(Renderable)
	if !ok {
		return "", fmt.Errorf("%w: subquery callback returned %T, want a value with SQL() (string, error)", ErrUnexpectedResult, result)
	}
	sql, err := r.SQL()
	if err != nil {
		return "", err
	}
	return Condition(name + " " + op + " (" + sql + ")"), nil
}
