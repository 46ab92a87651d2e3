package stmt

import "strconv"

// Limit caps the number of rows a statement touches, optionally skipping a
// prefix. Offset is nil when no offset was requested.
type Limit struct {
	Count  int
	Offset *int
}

func (l Limit) String() string {
	s := "LIMIT " + strconv.Itoa(l.Count)
	if l.Offset != nil {
		s += " OFFSET " + strconv.Itoa(*l.Offset)
	}
	return s
}
