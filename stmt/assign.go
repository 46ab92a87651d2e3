package stmt

// assignments is an ordered column and value list with last-write-wins
// updates. A column keeps its first-seen position however often its value
// is rewritten.
type assignments struct {
	list []assignment
	idx  map[string]int
}

type assignment struct {
	column string
	value  string
}

func (a *assignments) set(column, value string) {
	if i, ok := a.idx[column]; ok {
		a.list[i].value = value
		return
	}
	if a.idx == nil {
		a.idx = make(map[string]int)
	}
	a.idx[column] = len(a.list)
	a.list = append(a.list, assignment{column: column, value: value})
}

func (a *assignments) empty() bool {
	return len(a.list) == 0
}

func (a *assignments) columns() []string {
	cols := make([]string, len(a.list))
	for i, as := range a.list {
		cols[i] = as.column
	}
	return cols
}

func (a *assignments) values() []string {
	vals := make([]string, len(a.list))
	for i, as := range a.list {
		vals[i] = as.value
	}
	return vals
}

// pairs renders "column = value" terms in assignment order.
func (a *assignments) pairs() []string {
	out := make([]string, len(a.list))
	for i, as := range a.list {
		out[i] = as.column + " = " + as.value
	}
	return out
}
