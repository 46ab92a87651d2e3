package stmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopher1986/querybuilder/expr"
)

var eb = expr.NewBuilder()

func mustSQL(t *testing.T, s interface{ SQL() (string, error) }) string {
	t.Helper()
	sql, err := s.SQL()
	require.NoError(t, err)
	return sql
}

// =========================================================================
// Rendering Tests
// =========================================================================

func TestSelectMinimal(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Select
		expected string
	}{
		{
			name:     "StarWithoutColumns",
			build:    func() *Select { return NewSelect().From("users", "") },
			expected: "SELECT * FROM users",
		},
		{
			name:     "ColumnsOnly",
			build:    func() *Select { return NewSelect("id", "name") },
			expected: "SELECT id, name",
		},
		{
			name:     "FromWithAlias",
			build:    func() *Select { return NewSelect("id").From("users", "u") },
			expected: "SELECT id FROM users AS u",
		},
		{
			name: "Distinct",
			build: func() *Select {
				return NewSelect("country").Distinct().From("users", "")
			},
			expected: "SELECT DISTINCT country FROM users",
		},
		{
			name: "SelectReplacesProjection",
			build: func() *Select {
				return NewSelect("id").Select("name", "age").From("users", "")
			},
			expected: "SELECT name, age FROM users",
		},
		{
			name: "AddSelectAppends",
			build: func() *Select {
				return NewSelect("id").AddSelect("name").From("users", "")
			},
			expected: "SELECT id, name FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustSQL(t, tt.build()))
		})
	}
}

func TestSelectFilteredProjection(t *testing.T) {
	s := NewSelect("name", "age").
		From("users", "u").
		Where(eb.Eq("u.active", ":a"), eb.Gt("u.age", ":g"))

	assert.Equal(t,
		"SELECT name, age FROM users AS u WHERE (u.active = :a AND u.age > :g)",
		mustSQL(t, s))
}

func TestSelectJoins(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Select
		expected string
	}{
		{
			name: "InnerJoin",
			build: func() *Select {
				return NewSelect("u.id", "o.total").
					From("users", "u").
					Join("orders", "o", "o.user_id = u.id")
			},
			expected: "SELECT u.id, o.total FROM users AS u INNER JOIN orders AS o ON o.user_id = u.id",
		},
		{
			name: "LeftJoin",
			build: func() *Select {
				return NewSelect("u.id").
					From("users", "u").
					LeftJoin("orders", "o", "o.user_id = u.id")
			},
			expected: "SELECT u.id FROM users AS u LEFT JOIN orders AS o ON o.user_id = u.id",
		},
		{
			name: "RightJoin",
			build: func() *Select {
				return NewSelect("u.id").
					From("users", "u").
					RightJoin("orders", "o", "o.user_id = u.id")
			},
			expected: "SELECT u.id FROM users AS u RIGHT JOIN orders AS o ON o.user_id = u.id",
		},
		{
			name: "JoinWithoutCondition",
			build: func() *Select {
				return NewSelect("u.id").From("users", "u").Join("orders", "o", "")
			},
			expected: "SELECT u.id FROM users AS u INNER JOIN orders AS o",
		},
		{
			name: "MultipleJoinsKeepOrder",
			build: func() *Select {
				return NewSelect("u.id").
					From("users", "u").
					Join("orders", "o", "o.user_id = u.id").
					LeftJoin("payments", "p", "p.order_id = o.id")
			},
			expected: "SELECT u.id FROM users AS u INNER JOIN orders AS o ON o.user_id = u.id LEFT JOIN payments AS p ON p.order_id = o.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustSQL(t, tt.build()))
		})
	}
}

func TestSelectGroupByHaving(t *testing.T) {
	s := NewSelect("dept", "COUNT(id)").
		From("employees", "").
		GroupBy("dept").
		Having(eb.Gt("COUNT(id)", "5"))

	assert.Equal(t,
		"SELECT dept, COUNT(id) FROM employees GROUP BY dept HAVING COUNT(id) > 5",
		mustSQL(t, s))
}

func TestSelectGroupByReplaceAndAppend(t *testing.T) {
	s := NewSelect("a").From("t", "").GroupBy("x").AddGroupBy("y")
	assert.Equal(t, "SELECT a FROM t GROUP BY x, y", mustSQL(t, s))

	s.GroupBy("z")
	assert.Equal(t, "SELECT a FROM t GROUP BY z", mustSQL(t, s))
}

func TestSelectHavingMerge(t *testing.T) {
	s := NewSelect("dept").
		From("employees", "").
		GroupBy("dept").
		Having(eb.Gt("SUM(salary)", ":floor")).
		OrHaving(eb.Lt("COUNT(id)", ":cap"))

	assert.Equal(t,
		"SELECT dept FROM employees GROUP BY dept HAVING (SUM(salary) > :floor OR COUNT(id) < :cap)",
		mustSQL(t, s))
}

func TestSelectOrderByAndLimit(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Select
		expected string
	}{
		{
			name: "OrderByDefaultsAsc",
			build: func() *Select {
				return NewSelect("id").From("users", "").OrderBy("id", "")
			},
			expected: "SELECT id FROM users ORDER BY id ASC",
		},
		{
			name: "OrderByDesc",
			build: func() *Select {
				return NewSelect("id").From("users", "").OrderBy("created_at", Desc)
			},
			expected: "SELECT id FROM users ORDER BY created_at DESC",
		},
		{
			name: "OrderByLowercaseDirection",
			build: func() *Select {
				return NewSelect("id").From("users", "").OrderBy("id", "desc")
			},
			expected: "SELECT id FROM users ORDER BY id DESC",
		},
		{
			name: "AddOrderByAppends",
			build: func() *Select {
				return NewSelect("id").From("users", "").
					OrderBy("age", Desc).
					AddOrderBy("id", Asc)
			},
			expected: "SELECT id FROM users ORDER BY age DESC, id ASC",
		},
		{
			name: "OrderByReplaces",
			build: func() *Select {
				return NewSelect("id").From("users", "").
					OrderBy("age", Desc).
					AddOrderBy("id", Asc).
					OrderBy("name", "")
			},
			expected: "SELECT id FROM users ORDER BY name ASC",
		},
		{
			name: "Limit",
			build: func() *Select {
				return NewSelect("id").From("users", "").Limit(10)
			},
			expected: "SELECT id FROM users LIMIT 10",
		},
		{
			name: "LimitWithOffset",
			build: func() *Select {
				return NewSelect("id").From("users", "").Limit(10).Offset(20)
			},
			expected: "SELECT id FROM users LIMIT 10 OFFSET 20",
		},
		{
			name: "LimitReplacementDropsOffset",
			build: func() *Select {
				return NewSelect("id").From("users", "").Limit(10).Offset(20).Limit(5)
			},
			expected: "SELECT id FROM users LIMIT 5",
		},
		{
			name: "ClearLimit",
			build: func() *Select {
				return NewSelect("id").From("users", "").Limit(10).Offset(20).ClearLimit()
			},
			expected: "SELECT id FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustSQL(t, tt.build()))
		})
	}
}

func TestSelectClauseOrder(t *testing.T) {
	s := NewSelect("u.dept", "COUNT(u.id)").
		Distinct().
		From("users", "u").
		LeftJoin("orders", "o", "o.user_id = u.id").
		Where(eb.Eq("u.active", ":a")).
		GroupBy("u.dept").
		Having(eb.Gt("COUNT(u.id)", ":min")).
		OrderBy("u.dept", Asc).
		Limit(25).
		Offset(50)

	assert.Equal(t,
		"SELECT DISTINCT u.dept, COUNT(u.id) FROM users AS u "+
			"LEFT JOIN orders AS o ON o.user_id = u.id "+
			"WHERE u.active = :a "+
			"GROUP BY u.dept "+
			"HAVING COUNT(u.id) > :min "+
			"ORDER BY u.dept ASC "+
			"LIMIT 25 OFFSET 50",
		mustSQL(t, s))
}

// =========================================================================
// Condition Merge Tests
// =========================================================================

func TestSelectWhereMerging(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Select
		expected string
	}{
		{
			name: "SingleConditionUnwrapped",
			build: func() *Select {
				return NewSelect("id").From("t", "").Where(eb.Eq("a", "1"))
			},
			expected: "SELECT id FROM t WHERE a = 1",
		},
		{
			name: "AndWhereFlattensIntoAndRoot",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Eq("a", "1")).
					AndWhere(eb.Eq("b", "2")).
					AndWhere(eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE (a = 1 AND b = 2 AND c = 3)",
		},
		{
			name: "OrWhereWrapsAndRoot",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Eq("a", "1"), eb.Eq("b", "2")).
					OrWhere(eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE ((a = 1 AND b = 2) OR c = 3)",
		},
		{
			name: "AndWhereWrapsOrRoot",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Eq("a", "1")).
					OrWhere(eb.Eq("b", "2")).
					AndWhere(eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE ((a = 1 OR b = 2) AND c = 3)",
		},
		{
			name: "OrWhereFlattensIntoOrRoot",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Eq("a", "1")).
					OrWhere(eb.Eq("b", "2")).
					OrWhere(eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE (a = 1 OR b = 2 OR c = 3)",
		},
		{
			name: "WhereReplacesTree",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Eq("a", "1")).
					AndWhere(eb.Eq("b", "2")).
					Where(eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE c = 3",
		},
		{
			name: "AndWhereWithoutWhereStartsTree",
			build: func() *Select {
				return NewSelect("id").From("t", "").AndWhere(eb.Eq("a", "1"))
			},
			expected: "SELECT id FROM t WHERE a = 1",
		},
		{
			name: "OrWhereWithoutWhereStartsTree",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					OrWhere(eb.Eq("a", "1")).
					OrWhere(eb.Eq("b", "2"))
			},
			expected: "SELECT id FROM t WHERE (a = 1 OR b = 2)",
		},
		{
			name: "ExplicitCompositePart",
			build: func() *Select {
				return NewSelect("id").From("t", "").
					Where(eb.Or(eb.Eq("a", "1"), eb.Eq("b", "2")), eb.Eq("c", "3"))
			},
			expected: "SELECT id FROM t WHERE ((a = 1 OR b = 2) AND c = 3)",
		},
		{
			name: "EmptyWhereOmitsClause",
			build: func() *Select {
				return NewSelect("id").From("t", "").Where()
			},
			expected: "SELECT id FROM t",
		},
		{
			name: "WhereWithNoPartsClearsTree",
			build: func() *Select {
				return NewSelect("id").From("t", "").Where(eb.Eq("a", "1")).Where()
			},
			expected: "SELECT id FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustSQL(t, tt.build()))
		})
	}
}

// =========================================================================
// Error Handling Tests
// =========================================================================

func TestSelectRecordsFirstError(t *testing.T) {
	s := NewSelect("id").From("", "").Limit(-1)

	sql, err := s.SQL()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "from")
	assert.Equal(t, "", sql)
	assert.Equal(t, "", s.String())
}

func TestSelectErrorConditions(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Select
	}{
		{
			name:  "BlankColumn",
			build: func() *Select { return NewSelect("") },
		},
		{
			name:  "BlankAddSelect",
			build: func() *Select { return NewSelect("id").AddSelect(" ") },
		},
		{
			name:  "BlankFrom",
			build: func() *Select { return NewSelect("id").From("  ", "u") },
		},
		{
			name:  "BlankJoinTable",
			build: func() *Select { return NewSelect("id").From("t", "").Join("", "o", "x = y") },
		},
		{
			name:  "NilWherePart",
			build: func() *Select { return NewSelect("id").From("t", "").Where(nil) },
		},
		{
			name:  "NilAndWherePart",
			build: func() *Select { return NewSelect("id").From("t", "").AndWhere(nil) },
		},
		{
			name:  "NilHavingPart",
			build: func() *Select { return NewSelect("id").From("t", "").Having(nil) },
		},
		{
			name:  "BlankGroupBy",
			build: func() *Select { return NewSelect("id").From("t", "").GroupBy("") },
		},
		{
			name:  "BlankOrderColumn",
			build: func() *Select { return NewSelect("id").From("t", "").OrderBy("", Asc) },
		},
		{
			name:  "BadDirection",
			build: func() *Select { return NewSelect("id").From("t", "").OrderBy("id", "SIDEWAYS") },
		},
		{
			name:  "NegativeLimit",
			build: func() *Select { return NewSelect("id").From("t", "").Limit(-5) },
		},
		{
			name:  "NegativeOffset",
			build: func() *Select { return NewSelect("id").From("t", "").Limit(5).Offset(-1) },
		},
		{
			name:  "OffsetWithoutLimit",
			build: func() *Select { return NewSelect("id").From("t", "").Offset(10) },
		},
		{
			name:  "BlankParameterName",
			build: func() *Select { return NewSelect("id").From("t", "").SetParameter("", 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build()

			sql, err := s.SQL()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, "", sql)
			require.Error(t, s.Err())
		})
	}
}

func TestSelectChainSurvivesFailure(t *testing.T) {
	// A failed mutator must not panic later calls; the statement stays
	// poisoned with the first error.
	s := NewSelect("id").
		From("", "").
		Where(eb.Eq("a", "1")).
		OrderBy("id", Asc).
		Limit(3)

	_, err := s.SQL()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "from")
}

func TestSelectFailedMutatorLeavesPartsUntouched(t *testing.T) {
	s := NewSelect("id").From("t", "").OrderBy("id", Asc)

	s.OrderBy("name", "SIDEWAYS")
	s.errs = nil

	assert.Equal(t, "SELECT id FROM t ORDER BY id ASC", mustSQL(t, s))
}

// =========================================================================
// Caching Tests
// =========================================================================

func TestSelectRenderCaching(t *testing.T) {
	s := NewSelect("id").From("users", "")

	first := mustSQL(t, s)
	require.Equal(t, stateClean, s.state)

	second := mustSQL(t, s)
	assert.Equal(t, first, second)
	assert.Equal(t, stateClean, s.state)
}

func TestSelectMutationInvalidatesCache(t *testing.T) {
	s := NewSelect("id").From("users", "")
	require.Equal(t, "SELECT id FROM users", mustSQL(t, s))
	require.Equal(t, stateClean, s.state)

	s.Limit(5)

	assert.Equal(t, stateDirty, s.state)
	assert.Equal(t, "SELECT id FROM users LIMIT 5", mustSQL(t, s))
}

func TestSelectParameterBindingKeepsCache(t *testing.T) {
	s := NewSelect("id").From("users", "").Where(eb.Eq("id", ":id"))
	require.Equal(t, "SELECT id FROM users WHERE id = :id", mustSQL(t, s))
	require.Equal(t, stateClean, s.state)

	s.SetParameter("id", 42)

	assert.Equal(t, stateClean, s.state, "parameters are not parts")
	assert.Equal(t, map[string]any{"id": 42}, s.Parameters())
}

func TestSelectParameterOverwrite(t *testing.T) {
	s := NewSelect("id").From("users", "").
		SetParameter("id", 1).
		SetParameter("id", 2)

	assert.Equal(t, map[string]any{"id": 2}, s.Parameters())
}

// =========================================================================
// Benchmarks
// =========================================================================

func BenchmarkSelectRender(b *testing.B) {
	s := NewSelect("id", "name", "email").
		From("users", "u").
		Join("orders", "o", "o.user_id = u.id").
		Where(eb.Eq("u.active", ":active"), eb.Gt("u.age", ":age")).
		OrderBy("u.id", Asc).
		Limit(50)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.SQL(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelectRebuild(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := NewSelect("id", "name").
			From("users", "u").
			Where(eb.Eq("u.active", ":active")).
			AndWhere(eb.Gt("u.age", ":age")).
			Limit(10)
		if _, err := s.SQL(); err != nil {
			b.Fatal(err)
		}
	}
}
