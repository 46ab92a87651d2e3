package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/christopher1986/querybuilder/cache"
	"github.com/christopher1986/querybuilder/dialect"
)

// TypeHint declares how a bound value is coerced before execution. HintAuto
// passes the value through untouched.
type TypeHint int

const (
	HintAuto TypeHint = iota
	HintInt
	HintFloat
	HintString
	HintBool
)

func (h TypeHint) String() string {
	switch h {
	case HintInt:
		return "int"
	case HintFloat:
		return "float"
	case HintString:
		return "string"
	case HintBool:
		return "bool"
	default:
		return "auto"
	}
}

// Param is one named binding.
type Param struct {
	Name  string
	Value any
	Hint  TypeHint
}

// Coerce applies the hint to the value. Nil passes through for every hint.
func (p Param) Coerce() (any, error) {
	if p.Value == nil {
		return nil, nil
	}
	switch p.Hint {
	case HintAuto:
		return p.Value, nil
	case HintInt:
		return p.coerceInt()
	case HintFloat:
		return p.coerceFloat()
	case HintString:
		return p.coerceString()
	case HintBool:
		return p.coerceBool()
	}
	return nil, fmt.Errorf("%w: %s: unsupported hint %d", ErrBadParam, p.Name, p.Hint)
}

func (p Param) coerceInt() (any, error) {
	switch v := p.Value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not an integer", ErrBadParam, p.Name, v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s: cannot coerce %T to int", ErrBadParam, p.Name, p.Value)
}

func (p Param) coerceFloat() (any, error) {
	switch v := p.Value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrBadParam, p.Name, v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s: cannot coerce %T to float", ErrBadParam, p.Name, p.Value)
}

func (p Param) coerceString() (any, error) {
	switch v := p.Value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("%w: %s: cannot coerce %T to string", ErrBadParam, p.Name, p.Value)
}

func (p Param) coerceBool() (any, error) {
	switch v := p.Value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a boolean", ErrBadParam, p.Name, v)
		}
		return b, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	}
	return nil, fmt.Errorf("%w: %s: cannot coerce %T to bool", ErrBadParam, p.Name, p.Value)
}

// ParseNamed rewrites :name placeholders into the dialect's positional form
// and returns the referenced names in placeholder order. Double colons stay
// as casts and quoted text is left alone. A repeated name gets one slot per
// occurrence.
func ParseNamed(d dialect.Dialect, sql string) (string, []string) {
	var (
		out   strings.Builder
		names []string
	)
	out.Grow(len(sql) + 8)

	for i := 0; i < len(sql); {
		ch := sql[i]
		switch ch {
		case '\'', '"':
			j := skipQuoted(sql, i)
			out.WriteString(sql[i:j])
			i = j
		case ':':
			if i+1 < len(sql) && sql[i+1] == ':' {
				out.WriteString("::")
				i += 2
				continue
			}
			start := i + 1
			j := start
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			if j == start {
				out.WriteByte(ch)
				i++
				continue
			}
			names = append(names, sql[start:j])
			out.WriteString(d.Placeholder(len(names)))
			i = j
		default:
			out.WriteByte(ch)
			i++
		}
	}
	return out.String(), names
}

// Rebind rewrites sql for the dialect and resolves params into positional
// args ordered to match. Params without a matching placeholder are ignored;
// a placeholder without a param fails with ErrMissingParam.
func Rebind(d dialect.Dialect, sql string, params map[string]any) (string, []any, error) {
	bound, names := ParseNamed(d, sql)
	args, err := resolveArgs(names, params)
	if err != nil {
		return "", nil, err
	}
	return bound, args, nil
}

// resolveArgs orders params by the named slots. Extra params are ignored; a
// slot without a param fails with ErrMissingParam.
func resolveArgs(names []string, params map[string]any) ([]any, error) {
	args := make([]any, 0, len(names))
	for _, name := range names {
		v, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		args = append(args, v)
	}
	return args, nil
}

// rewriter memoizes ParseNamed results per connection so hot statements are
// rewritten once.
type rewriter struct {
	dialect  dialect.Dialect
	rewrites *cache.RewriteCache
}

func newRewriter(d dialect.Dialect) rewriter {
	return rewriter{
		dialect:  d,
		rewrites: cache.NewRewriteCache(),
	}
}

func (r *rewriter) rebind(sqlText string) (string, []string) {
	key := cache.Key(r.dialect.Name(), sqlText)
	if hit, ok := r.rewrites.Get(key); ok {
		return hit.Bound, hit.Names
	}
	bound, names := ParseNamed(r.dialect, sqlText)
	r.rewrites.Set(key, cache.Rewrite{Bound: bound, Names: names})
	return bound, names
}

// skipQuoted returns the index one past the literal opening at start.
// Doubled quotes stay inside the literal; an unterminated literal runs to
// the end of the text.
func skipQuoted(sql string, start int) int {
	quote := sql[start]
	for i := start + 1; i < len(sql); i++ {
		if sql[i] != quote {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(sql)
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// binding implements the named slots shared by prepared statement
// implementations.
type binding struct {
	names  []string
	params map[string]Param
}

func newBinding(names []string) binding {
	return binding{
		names:  names,
		params: make(map[string]Param, len(names)),
	}
}

// BindValue binds value under name with no coercion.
func (b *binding) BindValue(name string, value any) error {
	return b.BindParam(name, value, HintAuto)
}

// BindParam binds value under name, coerced per hint at execution time.
func (b *binding) BindParam(name string, value any, hint TypeHint) error {
	if !b.references(name) {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	b.params[name] = Param{Name: name, Value: value, Hint: hint}
	return nil
}

func (b *binding) references(name string) bool {
	for _, n := range b.names {
		if n == name {
			return true
		}
	}
	return false
}

// args resolves the bound params into positional order.
func (b *binding) args() ([]any, error) {
	args := make([]any, 0, len(b.names))
	for _, name := range b.names {
		p, ok := b.params[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		v, err := p.Coerce()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
