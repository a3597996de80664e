package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Kind is the storage shape of a field
type Kind int

const (
	KindText Kind = iota
	KindUUID
	KindArray
	KindInt
	KindBool
	KindTime
)

// Column maps a public field name to its column
type Column struct {
	Name string
	Kind Kind
}

// Schema lists the fields a collection exposes to filters and sorts.
// It must contain "id", which is used as the final sort tie-breaker.
type Schema map[string]Column

// Statement is a compiled Plan: a WHERE body, ORDER BY list and positional args
type Statement struct {
	Where   string
	OrderBy string
	Args    []interface{}
	Limit   int
	Offset  int
}

// Compile renders p as parameterised PostgreSQL
func (s Schema) Compile(p Plan) (*Statement, error) {
	st := &Statement{Limit: p.Limit, Offset: p.Offset}

	where, args, err := s.compileFilter(p.Filter, nil)
	if err != nil {
		return nil, err
	}
	st.Where = where
	st.Args = args

	orderBy, err := s.compileOrder(p.Order)
	if err != nil {
		return nil, err
	}
	st.OrderBy = orderBy

	return st, nil
}

// CompileFilter renders only the WHERE body of f
func (s Schema) CompileFilter(f Filter) (string, []interface{}, error) {
	return s.compileFilter(f, nil)
}

// SelectSQL returns the full SELECT statement for columns of table
func (st *Statement) SelectSQL(table, columns string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns, table)
	if st.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(st.Where)
	}
	if st.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(st.OrderBy)
	}
	if st.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", st.Limit)
	}
	if st.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", st.Offset)
	}
	return b.String()
}

// CountSQL returns a SELECT COUNT(*) over the statement's filter
func CountSQL(table, where string) string {
	if where == "" {
		return "SELECT COUNT(*) FROM " + table
	}
	return "SELECT COUNT(*) FROM " + table + " WHERE " + where
}

func (s Schema) compileFilter(f Filter, args []interface{}) (string, []interface{}, error) {
	parts := make([]string, 0, len(f))
	for _, clause := range f {
		if len(clause) == 0 {
			continue
		}
		ors := make([]string, 0, len(clause))
		for _, cond := range clause {
			sql, next, err := s.compileCondition(cond, args)
			if err != nil {
				return "", nil, err
			}
			args = next
			ors = append(ors, sql)
		}
		if len(ors) == 1 {
			parts = append(parts, ors[0])
		} else {
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		}
	}
	return strings.Join(parts, " AND "), args, nil
}

func (s Schema) compileCondition(c Condition, args []interface{}) (string, []interface{}, error) {
	col, ok := s[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
	}
	placeholder := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var sql string
	switch c.Op {
	case OpEq:
		if col.Kind == KindArray {
			sql = placeholder(c.Value) + " = ANY(" + col.Name + ")"
		} else {
			sql = col.Name + " = " + placeholder(c.Value)
		}

	case OpNe:
		if col.Kind == KindArray {
			sql = "NOT (" + placeholder(c.Value) + " = ANY(" + col.Name + "))"
		} else {
			sql = col.Name + " IS DISTINCT FROM " + placeholder(c.Value)
		}

	case OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s expects a list", ErrInvalidValue, c.Field)
		}
		if col.Kind == KindArray {
			sql = col.Name + " && " + placeholder(pq.Array(values))
		} else {
			sql = col.Name + " = ANY(" + placeholder(pq.Array(values)) + ")"
		}

	case OpContains:
		if col.Kind != KindArray {
			return "", nil, fmt.Errorf("%w: contains on %s", ErrUnsupportedOp, c.Field)
		}
		sql = placeholder(c.Value) + " = ANY(" + col.Name + ")"

	case OpMatch:
		if col.Kind != KindText {
			return "", nil, fmt.Errorf("%w: match on %s", ErrUnsupportedOp, c.Field)
		}
		text, ok := c.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s expects text", ErrInvalidValue, c.Field)
		}
		sql = col.Name + " ILIKE " + placeholder("%"+EscapeLike(text)+"%")

	case OpNull:
		if isNull, _ := c.Value.(bool); isNull {
			sql = col.Name + " IS NULL"
		} else {
			sql = col.Name + " IS NOT NULL"
		}

	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, c.Op)
	}

	return sql, args, nil
}

func (s Schema) compileOrder(order []Sort) (string, error) {
	parts := make([]string, 0, len(order)+1)
	hasID := false
	for _, o := range order {
		col, ok := s[o.Field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, o.Field)
		}
		if col.Kind == KindArray {
			return "", fmt.Errorf("%w: sort on %s", ErrUnsupportedOp, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col.Name+" "+dir)
		if o.Field == "id" {
			hasID = true
		}
	}
	if id, ok := s["id"]; ok && !hasID {
		parts = append(parts, id.Name+" ASC")
	}
	return strings.Join(parts, ", "), nil
}

// EscapeLike escapes LIKE wildcards so text matches literally
func EscapeLike(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(text)
}
