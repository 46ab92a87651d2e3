package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Comparison Tests
// =========================================================================

func TestBuilderComparisons(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		cond     Condition
		expected string
	}{
		{name: "Eq", cond: b.Eq("u.id", ":id"), expected: "u.id = :id"},
		{name: "Neq", cond: b.Neq("u.id", ":id"), expected: "u.id <> :id"},
		{name: "Gt", cond: b.Gt("u.age", ":age"), expected: "u.age > :age"},
		{name: "Gte", cond: b.Gte("u.age", ":age"), expected: "u.age >= :age"},
		{name: "Lt", cond: b.Lt("u.age", ":age"), expected: "u.age < :age"},
		{name: "Lte", cond: b.Lte("u.age", ":age"), expected: "u.age <= :age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cond.String())
		})
	}
}

// =========================================================================
// Aggregate Tests
// =========================================================================

func TestBuilderAggregates(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		cond     Condition
		expected string
	}{
		{name: "AvgSingle", cond: b.Avg("price"), expected: "AVG(price)"},
		{name: "AvgMultiple", cond: b.Avg("price", "tax"), expected: "AVG(price, tax)"},
		{name: "Sum", cond: b.Sum("total"), expected: "SUM(total)"},
		{name: "Max", cond: b.Max("score"), expected: "MAX(score)"},
		{name: "Min", cond: b.Min("score"), expected: "MIN(score)"},
		{name: "Count", cond: b.Count("id"), expected: "COUNT(id)"},
		{name: "CountStar", cond: b.Count("*"), expected: "COUNT(*)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cond.String())
		})
	}
}

// =========================================================================
// Membership Tests
// =========================================================================

func TestBuilderIn(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		cond     Condition
		expected string
	}{
		{
			name:     "Ints",
			cond:     b.In("age", 1, 2, 3),
			expected: "age IN (1, 2, 3)",
		},
		{
			name:     "Placeholders",
			cond:     b.In("status", ":s1", ":s2"),
			expected: "status IN (:s1, :s2)",
		},
		{
			name:     "SingleValue",
			cond:     b.In("id", 42),
			expected: "id IN (42)",
		},
		{
			name:     "NotIn",
			cond:     b.NotIn("age", 1, 2),
			expected: "age NOT IN (1, 2)",
		},
		{
			name:     "EmptyValues",
			cond:     b.In("age"),
			expected: "age IN ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cond.String())
		})
	}
}

type fixedStatement struct {
	sql string
	err error
}

func (f fixedStatement) SQL() (string, error) {
	return f.sql, f.err
}

func TestBuilderInQuery(t *testing.T) {
	b := NewBuilder()

	cond, err := b.InQuery("u.id", func() any {
		return fixedStatement{sql: "SELECT id FROM admins"}
	})

	require.NoError(t, err)
	assert.Equal(t, "u.id IN (SELECT id FROM admins)", cond.String())
}

func TestBuilderNotInQuery(t *testing.T) {
	b := NewBuilder()

	cond, err := b.NotInQuery("u.id", func() any {
		return fixedStatement{sql: "SELECT id FROM banned"}
	})

	require.NoError(t, err)
	assert.Equal(t, "u.id NOT IN (SELECT id FROM banned)", cond.String())
}

func TestBuilderInQueryErrors(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		sub      SubqueryFunc
		sentinel error
	}{
		{
			name:     "NilCallback",
			sub:      nil,
			sentinel: ErrInvalidArgument,
		},
		{
			name:     "NonRenderableResult",
			sub:      func() any { return 42 },
			sentinel: ErrUnexpectedResult,
		},
		{
			name:     "NilResult",
			sub:      func() any { return nil },
			sentinel: ErrUnexpectedResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := b.InQuery("u.id", tt.sub)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, "", cond.String())
		})
	}
}

func TestBuilderInQueryPropagatesRenderError(t *testing.T) {
	b := NewBuilder()
	boom := errors.New("malformed statement")

	_, err := b.InQuery("u.id", func() any {
		return fixedStatement{err: boom}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsUnexpectedResult(err))
}

// =========================================================================
// Range and Null Tests
// =========================================================================

func TestBuilderBetween(t *testing.T) {
	b := NewBuilder()

	cond := b.Between("u.age", ":lower", ":upper")

	assert.Equal(t, "u.age BETWEEN :lower AND :upper", cond.String())
}

func TestBuilderNullChecks(t *testing.T) {
	b := NewBuilder()

	assert.Equal(t, "u.deleted_at IS NULL", b.IsNull("u.deleted_at").String())
	assert.Equal(t, "u.email IS NOT NULL", b.IsNotNull("u.email").String())
}

// =========================================================================
// Composite Factory Tests
// =========================================================================

func TestBuilderAndOr(t *testing.T) {
	b := NewBuilder()

	and := b.And(b.Eq("a", "1"), b.Eq("b", "2"))
	or := b.Or(b.Eq("a", "1"), b.Eq("b", "2"))

	assert.Equal(t, OpAnd, and.Operator())
	assert.Equal(t, "(a = 1 AND b = 2)", and.String())
	assert.Equal(t, OpOr, or.Operator())
	assert.Equal(t, "(a = 1 OR b = 2)", or.String())
}

func TestBuilderAndOrReturnFreshComposites(t *testing.T) {
	b := NewBuilder()

	first := b.And(b.Eq("a", "1"))
	second := b.And(b.Eq("b", "2"))

	require.NotSame(t, first, second)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}
