package stmt

import "strings"

// Direction is a sort direction for an ORDER BY term.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// normalizeDirection maps the blank direction to ASC and rejects anything
// that is not ASC or DESC, case-insensitively.
func normalizeDirection(d Direction) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(string(d)))) {
	case "":
		return Asc, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", invalidf("order by: direction %q is not ASC or DESC", string(d))
}

// Order is one ORDER BY term.
type Order struct {
	Column    string
	Direction Direction
}

func (o Order) String() string {
	return o.Column + " " + string(o.Direction)
}

// makeOrder validates the term before any builder state changes.
func makeOrder(column string, direction Direction) (Order, error) {
	if strings.TrimSpace(column) == "" {
		return Order{}, invalidf("order by: blank column name")
	}
	dir, err := normalizeDirection(direction)
	if err != nil {
		return Order{}, err
	}
	return Order{Column: column, Direction: dir}, nil
}
