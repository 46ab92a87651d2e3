package expr

import "errors"

var (
	// ErrInvalidArgument marks a structurally invalid input, such as a nil
	// child or a blank identifier. Statement builders wrap it too, so one
	// errors.Is check covers the whole module.
	ErrInvalidArgument = errors.New("querybuilder: invalid argument")

	// ErrUnexpectedResult marks a callback result that cannot render SQL.
	ErrUnexpectedResult = errors.New("querybuilder: unexpected result")
)

// IsInvalidArgument reports whether err is or wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnexpectedResult reports whether err is or wraps ErrUnexpectedResult.
func IsUnexpectedResult(err error) bool {
	return errors.Is(err, ErrUnexpectedResult)
}
