// Package query turns a generic list request (filter, sort, pagination) into a
// store-neutral Plan, executes it through a Finder, and shapes the result as
// either a full sequence or a paging envelope.
//
// The same Plan can be rendered to SQL (Schema.Compile) or evaluated over an
// in-memory slice (Apply), so every collection lists the same way regardless of
// the backing store.
package query

import "errors"

var (
	// ErrUnknownField is returned when a filter or sort names a field the collection does not expose
	ErrUnknownField = errors.New("unknown field")
	// ErrUnsupportedOp is returned when an operator cannot be applied to a field
	ErrUnsupportedOp = errors.New("unsupported operator")
	// ErrInvalidValue is returned when a condition value has the wrong shape
	ErrInvalidValue = errors.New("invalid condition value")
	// ErrInvalidPagination is returned for page/pageSize values outside the accepted range
	ErrInvalidPagination = errors.New("invalid pagination")
)

// Pagination selects one page of results. Page and PageSize start at 1.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Skip     int `json:"skip"`
}

// Sort orders results by one field
type Sort struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// Query is the generic list request accepted by every collection
type Query struct {
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"searchQuery"`
	Order      []Sort     `json:"order"`
	Paging     bool       `json:"paging"`
}

// Plan is a Query with caller scopes merged in and skip/limit resolved.
// Limit 0 means no limit.
type Plan struct {
	Filter Filter
	Order  []Sort
	Limit  int
	Offset int
}

// Build merges scopes into the query filter (logical AND) and resolves the
// page window. Page and pageSize are not reinterpreted: skip is always
// (page-1)*pageSize.
func Build(q Query, scopes ...Condition) Plan {
	plan := Plan{
		Filter: q.Filter.And(scopes...),
		Order:  q.Order,
	}
	if q.Paging {
		plan.Limit = q.Pagination.PageSize
		plan.Offset = Skip(q.Pagination.Page, q.Pagination.PageSize)
	}
	return plan
}

// Skip returns the number of records before the given page
func Skip(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize)
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
