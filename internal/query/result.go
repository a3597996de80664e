package query

import (
	"context"
	"encoding/json"
)

// Finder is implemented by every listable collection
type Finder[T any] interface {
	Find(ctx context.Context, plan Plan) ([]T, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

// ListResult is either a paging envelope or a bare result sequence,
// depending on whether paging was requested.
type ListResult[T any] struct {
	Results         []T
	Paged           bool
	CurrentPage     int
	CurrentPageSize int
	PageSize        int
	TotalPages      int
	TotalResults    int
	HasNextPage     bool
}

type envelope[T any] struct {
	Results         []T  `json:"results"`
	CurrentPage     int  `json:"currentPage"`
	CurrentPageSize int  `json:"currentPageSize"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	TotalResults    int  `json:"totalResults"`
	HasNextPage     bool `json:"hasNextPage"`
}

// NewList wraps a full, unpaged result sequence
func NewList[T any](results []T) *ListResult[T] {
	if results == nil {
		results = []T{}
	}
	return &ListResult[T]{Results: results}
}

// NewPage builds a paging envelope for one page of a total result count
func NewPage[T any](results []T, page, pageSize, total int) *ListResult[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := TotalPages(total, pageSize)
	return &ListResult[T]{
		Results:         results,
		Paged:           true,
		CurrentPage:     page,
		CurrentPageSize: len(results),
		PageSize:        pageSize,
		TotalPages:      totalPages,
		TotalResults:    total,
		HasNextPage:     page < totalPages,
	}
}

// MarshalJSON renders the envelope when paged and a plain array otherwise
func (r *ListResult[T]) MarshalJSON() ([]byte, error) {
	if !r.Paged {
		return json.Marshal(r.Results)
	}
	return json.Marshal(envelope[T]{
		Results:         r.Results,
		CurrentPage:     r.CurrentPage,
		CurrentPageSize: r.CurrentPageSize,
		PageSize:        r.PageSize,
		TotalPages:      r.TotalPages,
		TotalResults:    r.TotalResults,
		HasNextPage:     r.HasNextPage,
	})
}

// Run builds the plan for q with scopes merged in, fetches the matching
// records, and counts the full match set when paging is requested.
func Run[T any](ctx context.Context, finder Finder[T], q Query, scopes ...Condition) (*ListResult[T], error) {
	plan := Build(q, scopes...)

	items, err := finder.Find(ctx, plan)
	if err != nil {
		return nil, err
	}
	if !q.Paging {
		return NewList(items), nil
	}

	total, err := finder.Count(ctx, plan.Filter)
	if err != nil {
		return nil, err
	}
	return NewPage(items, q.Pagination.Page, q.Pagination.PageSize, total), nil
}

// Map converts the results of r with fn, keeping the paging metadata
func Map[T, U any](r *ListResult[T], fn func([]T) ([]U, error)) (*ListResult[U], error) {
	converted, err := fn(r.Results)
	if err != nil {
		return nil, err
	}
	if converted == nil {
		converted = []U{}
	}
	return &ListResult[U]{
		Results:         converted,
		Paged:           r.Paged,
		CurrentPage:     r.CurrentPage,
		CurrentPageSize: len(converted),
		PageSize:        r.PageSize,
		TotalPages:      r.TotalPages,
		TotalResults:    r.TotalResults,
		HasNextPage:     r.HasNextPage,
	}, nil
}
