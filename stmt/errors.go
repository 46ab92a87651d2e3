package stmt

import "github.com/christopher1986/querybuilder/expr"

// Builder failures share the expression package's taxonomy, so callers can
// match either package's errors with one errors.Is check.
var (
	ErrInvalidArgument  = expr.ErrInvalidArgument
	ErrUnexpectedResult = expr.ErrUnexpectedResult
)
