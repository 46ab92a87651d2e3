package stmt

import (
	"strings"

	"github.com/christopher1986/querybuilder/expr"
)

// Delete builds a DELETE statement.
type Delete struct {
	base
	table   *Alias
	where   *expr.Composite
	orderBy []Order
	limit   *Limit
}

// NewDelete returns a delete statement targeting table. The alias may be
// blank.
func NewDelete(table, alias string) *Delete {
	d := &Delete{}
	return d.From(table, alias)
}

// From replaces the target table.
func (d *Delete) From(table, alias string) *Delete {
	if strings.TrimSpace(table) == "" {
		d.fail(invalidf("delete: blank table name"))
		return d
	}
	d.table = &Alias{Name: table, Alias: alias}
	d.invalidate()
	return d
}

// Where discards the current condition tree and starts over with parts
// joined under AND.
func (d *Delete) Where(parts ...expr.Expression) *Delete {
	if err := checkParts("where", parts); err != nil {
		d.fail(err)
		return d
	}
	d.where = nil
	return d.mergeWhere(expr.OpAnd, parts)
}

// AndWhere folds parts into the condition tree under AND.
func (d *Delete) AndWhere(parts ...expr.Expression) *Delete {
	return d.mergeWhere(expr.OpAnd, parts)
}

// OrWhere folds parts into the condition tree under OR.
func (d *Delete) OrWhere(parts ...expr.Expression) *Delete {
	return d.mergeWhere(expr.OpOr, parts)
}

func (d *Delete) mergeWhere(op expr.Operator, parts []expr.Expression) *Delete {
	if err := checkParts("where", parts); err != nil {
		d.fail(err)
		return d
	}
	d.where = mergeConditions(d.where, op, parts)
	d.invalidate()
	return d
}

// OrderBy replaces the ordering with a single term.
func (d *Delete) OrderBy(column string, direction Direction) *Delete {
	o, err := makeOrder(column, direction)
	if err != nil {
		d.fail(err)
		return d
	}
	d.orderBy = append(d.orderBy[:0], o)
	d.invalidate()
	return d
}

// AddOrderBy appends an ordering term.
func (d *Delete) AddOrderBy(column string, direction Direction) *Delete {
	o, err := makeOrder(column, direction)
	if err != nil {
		d.fail(err)
		return d
	}
	d.orderBy = append(d.orderBy, o)
	d.invalidate()
	return d
}

// Limit caps the number of affected rows.
func (d *Delete) Limit(count int) *Delete {
	if count < 0 {
		d.fail(invalidf("limit: negative count %d", count))
		return d
	}
	d.limit = &Limit{Count: count}
	d.invalidate()
	return d
}

// ClearLimit removes the limit.
func (d *Delete) ClearLimit() *Delete {
	d.limit = nil
	d.invalidate()
	return d
}

// SetParameter binds value to a named placeholder.
func (d *Delete) SetParameter(name string, value any) *Delete {
	d.setParameter(name, value)
	return d
}

// SQL renders the statement, reusing the cached text when possible.
func (d *Delete) SQL() (string, error) {
	return d.render(d.assemble)
}

// String renders best-effort. A statement with a recorded error renders as
// an empty string.
func (d *Delete) String() string {
	sql, err := d.SQL()
	if err != nil {
		return ""
	}
	return sql
}

func (d *Delete) assemble(sb *strings.Builder) {
	sb.WriteString("DELETE FROM")
	if d.table != nil {
		sb.WriteByte(' ')
		sb.WriteString(d.table.String())
	}
	writeConditions(sb, "WHERE", d.where)
	writeOrderBy(sb, d.orderBy)
	writeLimit(sb, d.limit)
}
