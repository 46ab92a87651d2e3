// Package expr models WHERE and HAVING predicates as immutable-operator
// boolean trees. Leaves are opaque SQL fragments; composites join children
// with a single logical operator fixed at construction.
package expr

import "fmt"

// Operator joins the children of a composite expression.
type Operator string

const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

// Expression is one renderable fragment of a boolean predicate. The two
// implementations are Condition leaves and *Composite nodes.
type Expression interface {
	fmt.Stringer
	expr()
}

// Condition is a single opaque comparison such as "u.age >= :age". Its text
// is emitted verbatim; callers supply parameter placeholders, not values.
type Condition string

func (c Condition) String() string { return string(c) }

func (Condition) expr() {}

// Cond wraps a raw fragment as a Condition.
func Cond(s string) Condition { return Condition(s) }

// Renderable is anything able to produce finished SQL text. Statements
// satisfy it; subquery callbacks must return one.
type Renderable interface {
	SQL() (string, error)
}
