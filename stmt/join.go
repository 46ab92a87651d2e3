package stmt

// JoinKind selects the join flavor.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
)

func (k JoinKind) String() string {
	switch k {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// Join is one join attached to a select statement. The condition is an
// opaque fragment rendered after ON.
type Join struct {
	Kind      JoinKind
	Target    Alias
	Condition string
}

func (j Join) String() string {
	s := j.Kind.String() + " " + j.Target.String()
	if j.Condition != "" {
		s += " ON " + j.Condition
	}
	return s
}
