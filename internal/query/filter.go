package query

// Op is a condition operator
type Op string

const (
	// OpEq matches equal scalars; on array fields it matches membership
	OpEq Op = "eq"
	// OpNe is the negation of OpEq
	OpNe Op = "ne"
	// OpIn matches any of a list of values; on array fields it matches overlap
	OpIn Op = "in"
	// OpContains matches array fields holding the value
	OpContains Op = "contains"
	// OpMatch is a case-insensitive literal substring match on text fields
	OpMatch Op = "match"
	// OpNull matches absent values when Value is true, present ones when false
	OpNull Op = "null"
)

// Condition is a single predicate on one field
type Condition struct {
	Field string      `json:"field"`
	Op    Op          `json:"op"`
	Value interface{} `json:"value"`
}

// Clause is a disjunction: it holds when any of its conditions holds
type Clause []Condition

// Filter is a conjunction of clauses. The zero value matches everything.
type Filter []Clause

// Eq builds an equality condition
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Ne builds an inequality condition
func Ne(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpNe, Value: value}
}

// In builds a membership condition
func In(field string, values []string) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

// Contains builds an array-membership condition
func Contains(field, value string) Condition {
	return Condition{Field: field, Op: OpContains, Value: value}
}

// Match builds a case-insensitive substring condition
func Match(field, text string) Condition {
	return Condition{Field: field, Op: OpMatch, Value: text}
}

// IsNull builds a condition matching absent values
func IsNull(field string) Condition {
	return Condition{Field: field, Op: OpNull, Value: true}
}

// Where builds a filter in which every condition must hold
func Where(conds ...Condition) Filter {
	return Filter(nil).And(conds...)
}

// And returns a copy of f with each condition appended as its own clause
func (f Filter) And(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	for _, c := range conds {
		out = append(out, Clause{c})
	}
	return out
}

// AndAny returns a copy of f with one extra clause satisfied by any of conds
func (f Filter) AndAny(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+1)
	out = append(out, f...)
	if len(conds) > 0 {
		out = append(out, Clause(append([]Condition(nil), conds...)))
	}
	return out
}
