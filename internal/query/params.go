package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Options configures FromValues for one collection
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	// SearchFields are matched (OR) against the "search" parameter
	SearchFields []string
	// DefaultOrder applies when no "sort" parameter is given
	DefaultOrder []Sort
}

// FromValues parses list parameters:
//
//	page=2&pageSize=20&paging=true&search=go&sort=-createdAt,title
func FromValues(v url.Values, opts Options) (Query, error) {
	q := Query{Paging: true, Order: opts.DefaultOrder}

	page, err := intParam(v, "page", 1)
	if err != nil {
		return q, err
	}
	pageSize, err := intParam(v, "pageSize", opts.DefaultPageSize)
	if err != nil {
		return q, err
	}
	if page < 1 {
		return q, fmt.Errorf("%w: page must be >= 1", ErrInvalidPagination)
	}
	if pageSize < 1 {
		return q, fmt.Errorf("%w: pageSize must be >= 1", ErrInvalidPagination)
	}
	if opts.MaxPageSize > 0 && pageSize > opts.MaxPageSize {
		return q, fmt.Errorf("%w: pageSize must be <= %d", ErrInvalidPagination, opts.MaxPageSize)
	}
	if page-1 > math.MaxInt/pageSize {
		return q, fmt.Errorf("%w: page is out of range", ErrInvalidPagination)
	}
	q.Pagination = Pagination{Page: page, PageSize: pageSize, Skip: Skip(page, pageSize)}

	if raw := v.Get("paging"); raw != "" {
		paging, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("%w: paging must be a boolean", ErrInvalidPagination)
		}
		q.Paging = paging
	}

	if raw := v.Get("sort"); raw != "" {
		q.Order = ParseSort(raw)
	}

	if search := strings.TrimSpace(v.Get("search")); search != "" && len(opts.SearchFields) > 0 {
		conds := make([]Condition, 0, len(opts.SearchFields))
		for _, field := range opts.SearchFields {
			conds = append(conds, Match(field, search))
		}
		q.Filter = q.Filter.AndAny(conds...)
	}

	return q, nil
}

// ParseSort parses a comma separated field list; a leading '-' sorts descending
func ParseSort(raw string) []Sort {
	var order []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s := Sort{Field: part}
		if strings.HasPrefix(part, "-") {
			s = Sort{Field: part[1:], Desc: true}
		} else if strings.HasPrefix(part, "+") {
			s.Field = part[1:]
		}
		order = append(order, s)
	}
	return order
}

func intParam(v url.Values, key string, def int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidPagination, key)
	}
	return n, nil
}
