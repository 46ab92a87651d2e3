package stmt

import (
	"strings"

	"github.com/christopher1986/querybuilder/expr"
)

// Update builds an UPDATE statement.
type Update struct {
	base
	table   *Alias
	sets    assignments
	where   *expr.Composite
	orderBy []Order
	limit   *Limit
}

// NewUpdate returns an update statement targeting table. The alias may be
// blank.
func NewUpdate(table, alias string) *Update {
	u := &Update{}
	return u.Table(table, alias)
}

// Table replaces the target table.
func (u *Update) Table(table, alias string) *Update {
	if strings.TrimSpace(table) == "" {
		u.fail(invalidf("update: blank table name"))
		return u
	}
	u.table = &Alias{Name: table, Alias: alias}
	u.invalidate()
	return u
}

// Set assigns value to column. Reassigning a column keeps its original
// position and overwrites the value.
func (u *Update) Set(column, value string) *Update {
	if strings.TrimSpace(column) == "" {
		u.fail(invalidf("set: blank column name"))
		return u
	}
	u.sets.set(column, value)
	u.invalidate()
	return u
}

// Where discards the current condition tree and starts over with parts
// joined under AND.
func (u *Update) Where(parts ...expr.Expression) *Update {
	if err := checkParts("where", parts); err != nil {
		u.fail(err)
		return u
	}
	u.where = nil
	return u.mergeWhere(expr.OpAnd, parts)
}

// AndWhere folds parts into the condition tree under AND.
func (u *Update) AndWhere(parts ...expr.Expression) *Update {
	return u.mergeWhere(expr.OpAnd, parts)
}

// OrWhere folds parts into the condition tree under OR.
func (u *Update) OrWhere(parts ...expr.Expression) *Update {
	return u.mergeWhere(expr.OpOr, parts)
}

func (u *Update) mergeWhere(op expr.Operator, parts []expr.Expression) *Update {
	if err := checkParts("where", parts); err != nil {
		u.fail(err)
		return u
	}
	u.where = mergeConditions(u.where, op, parts)
	u.invalidate()
	return u
}

// OrderBy replaces the ordering with a single term.
func (u *Update) OrderBy(column string, direction Direction) *Update {
	o, err := makeOrder(column, direction)
	if err != nil {
		u.fail(err)
		return u
	}
	u.orderBy = append(u.orderBy[:0], o)
	u.invalidate()
	return u
}

// AddOrderBy appends an ordering term.
func (u *Update) AddOrderBy(column string, direction Direction) *Update {
	o, err := makeOrder(column, direction)
	if err != nil {
		u.fail(err)
		return u
	}
	u.orderBy = append(u.orderBy, o)
	u.invalidate()
	return u
}

// Limit caps the number of affected rows.
func (u *Update) Limit(count int) *Update {
	if count < 0 {
		u.fail(invalidf("limit: negative count %d", count))
		return u
	}
	u.limit = &Limit{Count: count}
	u.invalidate()
	return u
}

// ClearLimit removes the limit.
func (u *Update) ClearLimit() *Update {
	u.limit = nil
	u.invalidate()
	return u
}

// SetParameter binds value to a named placeholder.
func (u *Update) SetParameter(name string, value any) *Update {
	u.setParameter(name, value)
	return u
}

// SQL renders the statement, reusing the cached text when possible.
func (u *Update) SQL() (string, error) {
	return u.render(u.assemble)
}

// String renders best-effort. A statement with a recorded error renders as
// an empty string.
func (u *Update) String() string {
	sql, err := u.SQL()
	if err != nil {
		return ""
	}
	return sql
}

func (u *Update) assemble(sb *strings.Builder) {
	sb.WriteString("UPDATE")
	if u.table != nil {
		sb.WriteByte(' ')
		sb.WriteString(u.table.String())
	}
	if !u.sets.empty() {
		sb.WriteString(" SET ")
		sb.WriteString(strings.Join(u.sets.pairs(), ", "))
	}
	writeConditions(sb, "WHERE", u.where)
	writeOrderBy(sb, u.orderBy)
	writeLimit(sb, u.limit)
}
