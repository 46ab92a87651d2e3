package expr

import (
	"fmt"
	"strings"
)

// Composite joins child expressions under one logical operator. The operator
// is fixed for the lifetime of the node; combining a tree under a different
// operator always means wrapping it in a new parent, never rewriting it.
type Composite struct {
	op       Operator
	children []Expression
}

// NewAnd returns a composite joining parts with AND. Nil parts are skipped.
func NewAnd(parts ...Expression) *Composite {
	return newComposite(OpAnd, parts)
}

// NewOr returns a composite joining parts with OR. Nil parts are skipped.
func NewOr(parts ...Expression) *Composite {
	return newComposite(OpOr, parts)
}

func newComposite(op Operator, parts []Expression) *Composite {
	c := &Composite{op: op, children: make([]Expression, 0, len(parts))}
	for _, p := range parts {
		if p != nil {
			c.children = append(c.children, p)
		}
	}
	return c
}

// Add appends one child. A nil child fails with ErrInvalidArgument and
// leaves the composite unchanged.
func (c *Composite) Add(child Expression) error {
	if child == nil {
		return fmt.Errorf("%w: nil expression", ErrInvalidArgument)
	}
	c.children = append(c.children, child)
	return nil
}

// AddAll appends parts in order. Any nil element fails with
// ErrInvalidArgument before anything is appended.
func (c *Composite) AddAll(parts []Expression) error {
	for i, p := range parts {
		if p == nil {
			return fmt.Errorf("%w: nil expression at index %d", ErrInvalidArgument, i)
		}
	}
	c.children = append(c.children, parts...)
	return nil
}

// Clear removes every child. The operator is retained.
func (c *Composite) Clear() {
	c.children = c.children[:0]
}

// IsEmpty reports whether the composite has no children.
func (c *Composite) IsEmpty() bool {
	return len(c.children) == 0
}

// Len returns the number of direct children.
func (c *Composite) Len() int {
	return len(c.children)
}

// Operator returns the operator the composite was constructed with.
func (c *Composite) Operator() Operator {
	return c.op
}

// String renders the subtree. An empty composite produces an empty string,
// a single child is passed through without parentheses, and two or more
// children are joined by the operator inside exactly one pair of
// parentheses.
func (c *Composite) String() string {
	switch len(c.children) {
	case 0:
		return ""
	case 1:
		return c.children[0].String()
	}
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = child.String()
	}
	return "(" + strings.Join(parts, " "+string(c.op)+" ") + ")"
}

func (*Composite) expr() {}
