package query

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Getter reads a named field from a record. It returns false for fields the
// record does not expose. Nullable fields are returned as pointers.
type Getter[T any] func(item T, field string) (interface{}, bool)

// Apply evaluates p over items: filter, sort, then the offset/limit window
func Apply[T any](p Plan, items []T, get Getter[T]) ([]T, error) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := Matches(p.Filter, item, get)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}

	if len(items) > 0 {
		for _, o := range p.Order {
			if _, ok := get(items[0], o.Field); !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, o.Field)
			}
		}
	}

	var sortErr error
	sort.SliceStable(matched, func(i, j int) bool {
		less, err := lessBy(p.Order, matched[i], matched[j], get)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}

	if p.Offset > 0 {
		if p.Offset >= len(matched) {
			return []T{}, nil
		}
		matched = matched[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(matched) {
		matched = matched[:p.Limit]
	}
	return matched, nil
}

// CountMatches counts the items matching f
func CountMatches[T any](f Filter, items []T, get Getter[T]) (int, error) {
	n := 0
	for _, item := range items {
		ok, err := Matches(f, item, get)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Matches reports whether item satisfies every clause of f
func Matches[T any](f Filter, item T, get Getter[T]) (bool, error) {
	for _, clause := range f {
		if len(clause) == 0 {
			continue
		}
		satisfied := false
		for _, c := range clause {
			v, ok := get(item, c.Field)
			if !ok {
				return false, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
			}
			hit, err := evaluate(c, v)
			if err != nil {
				return false, err
			}
			if hit {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(c Condition, v interface{}) (bool, error) {
	switch c.Op {
	case OpEq:
		return equals(v, c.Value), nil

	case OpNe:
		return !equals(v, c.Value), nil

	case OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			return false, fmt.Errorf("%w: %s expects a list", ErrInvalidValue, c.Field)
		}
		for _, want := range values {
			if equals(v, want) {
				return true, nil
			}
		}
		return false, nil

	case OpContains:
		arr, ok := v.([]string)
		if !ok {
			return false, fmt.Errorf("%w: contains on %s", ErrUnsupportedOp, c.Field)
		}
		return containsString(arr, fmt.Sprint(c.Value)), nil

	case OpMatch:
		text, ok := c.Value.(string)
		if !ok {
			return false, fmt.Errorf("%w: %s expects text", ErrInvalidValue, c.Field)
		}
		s, ok := deref(v).(string)
		if !ok {
			return false, fmt.Errorf("%w: match on %s", ErrUnsupportedOp, c.Field)
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(text)), nil

	case OpNull:
		isNull, _ := c.Value.(bool)
		return isNil(v) == isNull, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnsupportedOp, c.Op)
}

func equals(v, want interface{}) bool {
	if arr, ok := v.([]string); ok {
		return containsString(arr, fmt.Sprint(want))
	}
	v = deref(v)
	if v == nil {
		return false
	}
	if t, ok := v.(time.Time); ok {
		if wt, ok := want.(time.Time); ok {
			return t.Equal(wt)
		}
		return t.Format(time.RFC3339Nano) == fmt.Sprint(want)
	}
	return fmt.Sprint(v) == fmt.Sprint(want)
}

func lessBy[T any](order []Sort, a, b T, get Getter[T]) (bool, error) {
	for _, o := range order {
		av, ok := get(a, o.Field)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownField, o.Field)
		}
		bv, _ := get(b, o.Field)
		cmp, err := compare(deref(av), deref(bv))
		if err != nil {
			return false, fmt.Errorf("%w: sort on %s", err, o.Field)
		}
		if cmp == 0 {
			continue
		}
		if o.Desc {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	}
	if av, ok := get(a, "id"); ok {
		bv, _ := get(b, "id")
		return fmt.Sprint(av) < fmt.Sprint(bv), nil
	}
	return false, nil
}

// compare orders two scalar values of the same kind. Absent values sort
// after every present value, as NULL does in PostgreSQL.
func compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return 1, nil
		default:
			return -1, nil
		}
	}
	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string)), nil
	case int:
		return compareInt(int64(av), int64(b.(int))), nil
	case int64:
		return compareInt(av, b.(int64)), nil
	case bool:
		bb := b.(bool)
		switch {
		case av == bb:
			return 0, nil
		case !av:
			return -1, nil
		default:
			return 1, nil
		}
	case time.Time:
		bt := b.(time.Time)
		switch {
		case av.Before(bt):
			return -1, nil
		case av.After(bt):
			return 1, nil
		}
		return 0, nil
	}
	return 0, ErrUnsupportedOp
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func deref(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func isNil(v interface{}) bool {
	return deref(v) == nil
}

func containsString(arr []string, s string) bool {
	for _, a := range arr {
		if a == s {
			return true
		}
	}
	return false
}
