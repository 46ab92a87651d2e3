package stmt

import (
	"strings"

	"github.com/christopher1986/querybuilder/expr"
)

// Select builds a SELECT statement. Parts are accumulated through chainable
// mutators and rendered in clause order.
type Select struct {
	base
	distinct bool
	columns  []string
	from     *Alias
	joins    []Join
	where    *expr.Composite
	groupBy  []string
	having   *expr.Composite
	orderBy  []Order
	limit    *Limit
}

// NewSelect returns a select statement projecting columns. With no columns
// the projection renders as "*".
func NewSelect(columns ...string) *Select {
	s := &Select{}
	if len(columns) > 0 {
		s.Select(columns...)
	}
	return s
}

// Select replaces the projection.
func (s *Select) Select(columns ...string) *Select {
	if err := checkIdents("select", columns); err != nil {
		s.fail(err)
		return s
	}
	s.columns = append(s.columns[:0], columns...)
	s.invalidate()
	return s
}

// AddSelect appends columns to the projection.
func (s *Select) AddSelect(columns ...string) *Select {
	if err := checkIdents("select", columns); err != nil {
		s.fail(err)
		return s
	}
	s.columns = append(s.columns, columns...)
	s.invalidate()
	return s
}

// Distinct makes the statement deduplicate result rows.
func (s *Select) Distinct() *Select {
	s.distinct = true
	s.invalidate()
	return s
}

// From sets the table to select from. The alias may be blank.
func (s *Select) From(table, alias string) *Select {
	if strings.TrimSpace(table) == "" {
		s.fail(invalidf("from: blank table name"))
		return s
	}
	s.from = &Alias{Name: table, Alias: alias}
	s.invalidate()
	return s
}

// Join adds an inner join against table with an ON condition.
func (s *Select) Join(table, alias, condition string) *Select {
	return s.join(JoinInner, table, alias, condition)
}

// LeftJoin adds a left outer join.
func (s *Select) LeftJoin(table, alias, condition string) *Select {
	return s.join(JoinLeft, table, alias, condition)
}

// RightJoin adds a right outer join.
func (s *Select) RightJoin(table, alias, condition string) *Select {
	return s.join(JoinRight, table, alias, condition)
}

func (s *Select) join(kind JoinKind, table, alias, condition string) *Select {
	if strings.TrimSpace(table) == "" {
		s.fail(invalidf("join: blank table name"))
		return s
	}
	s.joins = append(s.joins, Join{
		Kind:      kind,
		Target:    Alias{Name: table, Alias: alias},
		Condition: condition,
	})
	s.invalidate()
	return s
}

// Where discards the current condition tree and starts over with parts
// joined under AND.
func (s *Select) Where(parts ...expr.Expression) *Select {
	if err := checkParts("where", parts); err != nil {
		s.fail(err)
		return s
	}
	s.where = nil
	return s.mergeWhere(expr.OpAnd, parts)
}

// AndWhere folds parts into the condition tree under AND. A root already
// joined by AND absorbs them in place; an OR root is wrapped as the first
// child of a new AND parent.
func (s *Select) AndWhere(parts ...expr.Expression) *Select {
	return s.mergeWhere(expr.OpAnd, parts)
}

// OrWhere folds parts into the condition tree under OR.
func (s *Select) OrWhere(parts ...expr.Expression) *Select {
	return s.mergeWhere(expr.OpOr, parts)
}

func (s *Select) mergeWhere(op expr.Operator, parts []expr.Expression) *Select {
	if err := checkParts("where", parts); err != nil {
		s.fail(err)
		return s
	}
	s.where = mergeConditions(s.where, op, parts)
	s.invalidate()
	return s
}

// GroupBy replaces the grouping columns.
func (s *Select) GroupBy(columns ...string) *Select {
	if err := checkIdents("group by", columns); err != nil {
		s.fail(err)
		return s
	}
	s.groupBy = append(s.groupBy[:0], columns...)
	s.invalidate()
	return s
}

// AddGroupBy appends grouping columns.
func (s *Select) AddGroupBy(columns ...string) *Select {
	if err := checkIdents("group by", columns); err != nil {
		s.fail(err)
		return s
	}
	s.groupBy = append(s.groupBy, columns...)
	s.invalidate()
	return s
}

// Having discards the group filter and starts over with parts joined under
// AND.
func (s *Select) Having(parts ...expr.Expression) *Select {
	if err := checkParts("having", parts); err != nil {
		s.fail(err)
		return s
	}
	s.having = nil
	return s.mergeHaving(expr.OpAnd, parts)
}

// AndHaving folds parts into the group filter under AND.
func (s *Select) AndHaving(parts ...expr.Expression) *Select {
	return s.mergeHaving(expr.OpAnd, parts)
}

// OrHaving folds parts into the group filter under OR.
func (s *Select) OrHaving(parts ...expr.Expression) *Select {
	return s.mergeHaving(expr.OpOr, parts)
}

func (s *Select) mergeHaving(op expr.Operator, parts []expr.Expression) *Select {
	if err := checkParts("having", parts); err != nil {
		s.fail(err)
		return s
	}
	s.having = mergeConditions(s.having, op, parts)
	s.invalidate()
	return s
}

// OrderBy replaces the ordering with a single term. A blank direction
// defaults to ASC.
func (s *Select) OrderBy(column string, direction Direction) *Select {
	o, err := makeOrder(column, direction)
	if err != nil {
		s.fail(err)
		return s
	}
	s.orderBy = append(s.orderBy[:0], o)
	s.invalidate()
	return s
}

// AddOrderBy appends an ordering term.
func (s *Select) AddOrderBy(column string, direction Direction) *Select {
	o, err := makeOrder(column, direction)
	if err != nil {
		s.fail(err)
		return s
	}
	s.orderBy = append(s.orderBy, o)
	s.invalidate()
	return s
}

// Limit caps the number of result rows. Any previous offset is dropped.
func (s *Select) Limit(count int) *Select {
	if count < 0 {
		s.fail(invalidf("limit: negative count %d", count))
		return s
	}
	s.limit = &Limit{Count: count}
	s.invalidate()
	return s
}

// Offset skips the first count rows. A limit must be set first.
func (s *Select) Offset(count int) *Select {
	if count < 0 {
		s.fail(invalidf("offset: negative count %d", count))
		return s
	}
	if s.limit == nil {
		s.fail(invalidf("offset: no limit set"))
		return s
	}
	s.limit.Offset = &count
	s.invalidate()
	return s
}

// ClearLimit removes the limit and offset.
func (s *Select) ClearLimit() *Select {
	s.limit = nil
	s.invalidate()
	return s
}

// SetParameter binds value to a named placeholder. Binding leaves the
// cached SQL untouched.
func (s *Select) SetParameter(name string, value any) *Select {
	s.setParameter(name, value)
	return s
}

// SQL renders the statement, reusing the cached text when no part changed
// since the last render.
func (s *Select) SQL() (string, error) {
	return s.render(s.assemble)
}

// String renders best-effort. A statement with a recorded error renders as
// an empty string.
func (s *Select) String() string {
	sql, err := s.SQL()
	if err != nil {
		return ""
	}
	return sql
}

func (s *Select) assemble(sb *strings.Builder) {
	sb.WriteString("SELECT ")
	if s.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strings.Join(s.columns, ", "))
	}
	if s.from != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(s.from.String())
	}
	for _, j := range s.joins {
		sb.WriteByte(' ')
		sb.WriteString(j.String())
	}
	writeConditions(sb, "WHERE", s.where)
	if len(s.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(s.groupBy, ", "))
	}
	writeConditions(sb, "HAVING", s.having)
	writeOrderBy(sb, s.orderBy)
	writeLimit(sb, s.limit)
}
