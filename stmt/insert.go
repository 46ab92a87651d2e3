package stmt

import "strings"

// Insert builds an INSERT statement with a single VALUES row.
type Insert struct {
	base
	table  string
	values assignments
}

// NewInsert returns an insert statement targeting table.
func NewInsert(table string) *Insert {
	i := &Insert{}
	return i.Into(table)
}

// Into replaces the target table.
func (i *Insert) Into(table string) *Insert {
	if strings.TrimSpace(table) == "" {
		i.fail(invalidf("insert: blank table name"))
		return i
	}
	i.table = table
	i.invalidate()
	return i
}

// Value assigns value to column. Reassigning a column keeps its original
// position and overwrites the value.
func (i *Insert) Value(column, value string) *Insert {
	if strings.TrimSpace(column) == "" {
		i.fail(invalidf("value: blank column name"))
		return i
	}
	i.values.set(column, value)
	i.invalidate()
	return i
}

// SetParameter binds value to a named placeholder.
func (i *Insert) SetParameter(name string, value any) *Insert {
	i.setParameter(name, value)
	return i
}

// SQL renders the statement, reusing the cached text when possible.
func (i *Insert) SQL() (string, error) {
	return i.render(i.assemble)
}

// String renders best-effort. A statement with a recorded error renders as
// an empty string.
func (i *Insert) String() string {
	sql, err := i.SQL()
	if err != nil {
		return ""
	}
	return sql
}

func (i *Insert) assemble(sb *strings.Builder) {
	sb.WriteString("INSERT INTO")
	if i.table != "" {
		sb.WriteByte(' ')
		sb.WriteString(i.table)
	}
	if !i.values.empty() {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(i.values.columns(), ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(strings.Join(i.values.values(), ", "))
		sb.WriteByte(')')
	}
}
