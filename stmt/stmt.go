// Package stmt provides fluent builders for SELECT, INSERT, UPDATE and
// DELETE statements. Builders accumulate named parts through chainable
// mutators, render them in a fixed clause order, and cache the rendered SQL
// until the next mutation.
package stmt

import (
	"fmt"
	"strings"

	"github.com/christopher1986/querybuilder/expr"
)

// Statement is the contract the execution layer consumes: finished SQL text
// plus the named parameters bound to it.
type Statement interface {
	SQL() (string, error)
	Parameters() map[string]any
}

type renderState uint8

const (
	stateDirty renderState = iota
	stateClean
)

// base carries the behavior every builder shares. Mutators record errors
// instead of returning them so chains stay safe to call; the first recorded
// error is surfaced when the statement is rendered or executed.
type base struct {
	state  renderState
	cached string
	errs   []error
	params map[string]any
}

// invalidate discards the cached render. Every part mutation goes through
// it; parameter binding does not.
func (b *base) invalidate() {
	b.state = stateDirty
	b.cached = ""
}

func (b *base) fail(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Err returns the first error recorded by a mutator, or nil.
func (b *base) Err() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	return nil
}

// render returns the cached SQL when the statement is clean. Otherwise it
// runs assemble, trims trailing whitespace, caches the result and flips the
// statement clean. A recorded error short-circuits to ("", err); malformed
// SQL is never returned.
func (b *base) render(assemble func(*strings.Builder)) (string, error) {
	if err := b.Err(); err != nil {
		return "", err
	}
	if b.state == stateClean {
		return b.cached, nil
	}
	var sb strings.Builder
	assemble(&sb)
	b.cached = strings.TrimRight(sb.String(), " \t\n")
	b.state = stateClean
	return b.cached, nil
}

// setParameter binds value under name. Parameters live outside the part
// map, so binding leaves the render cache untouched.
func (b *base) setParameter(name string, value any) {
	if strings.TrimSpace(name) == "" {
		b.fail(invalidf("parameter name must not be blank"))
		return
	}
	if b.params == nil {
		b.params = make(map[string]any)
	}
	b.params[name] = value
}

// Parameters returns the parameters bound so far. The map is shared, not
// copied; treat it as read-only.
func (b *base) Parameters() map[string]any {
	return b.params
}

// invalidf wraps expr.ErrInvalidArgument so every builder failure matches a
// single errors.Is check.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{expr.ErrInvalidArgument}, args...)...)
}

// checkParts rejects nil expressions up front so condition trees never hold
// nil children, whichever merge path runs afterwards.
func checkParts(clause string, parts []expr.Expression) error {
	for i, p := range parts {
		if p == nil {
			return invalidf("%s: nil expression at index %d", clause, i)
		}
	}
	return nil
}

func checkIdents(clause string, idents []string) error {
	for i, id := range idents {
		if strings.TrimSpace(id) == "" {
			return invalidf("%s: blank identifier at index %d", clause, i)
		}
	}
	return nil
}

func newComposite(op expr.Operator, parts ...expr.Expression) *expr.Composite {
	if op == expr.OpOr {
		return expr.NewOr(parts...)
	}
	return expr.NewAnd(parts...)
}

// mergeConditions folds parts into an existing condition tree. Without a
// root it starts a fresh composite. A root with the same operator absorbs
// the parts in place. A root with the other operator becomes the first
// child of a new parent, so earlier grouping is preserved.
func mergeConditions(root *expr.Composite, op expr.Operator, parts []expr.Expression) *expr.Composite {
	if root == nil {
		return newComposite(op, parts...)
	}
	if root.Operator() == op {
		// parts were checked by the caller, the append cannot fail
		_ = root.AddAll(parts)
		return root
	}
	children := make([]expr.Expression, 0, len(parts)+1)
	children = append(children, root)
	children = append(children, parts...)
	return newComposite(op, children...)
}

func writeConditions(sb *strings.Builder, keyword string, root *expr.Composite) {
	if root == nil || root.IsEmpty() {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(keyword)
	sb.WriteByte(' ')
	sb.WriteString(root.String())
}

func writeOrderBy(sb *strings.Builder, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sb.WriteString(" ORDER BY ")
	for i, o := range orders {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(o.String())
	}
}

func writeLimit(sb *strings.Builder, limit *Limit) {
	if limit == nil {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(limit.String())
}
