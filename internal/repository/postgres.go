package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/query"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no document matches the lookup
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert or update violates a unique index
	ErrDuplicate = errors.New("duplicate key")
)

const uniqueViolation = "23505"

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// translate maps driver errors onto the repository sentinels
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// expectOne returns ErrNotFound when res touched no rows
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// find runs plan against table and scans every row with scan
func find[T any](ctx context.Context, db database.Querier, table, columns string, schema query.Schema, plan query.Plan, scan func(scanner) (T, error)) ([]T, error) {
	st, err := schema.Compile(plan)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, st.SelectSQL(table, columns), st.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func count(ctx context.Context, db database.Querier, table string, schema query.Schema, filter query.Filter) (int, error) {
	where, args, err := schema.CompileFilter(filter)
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, query.CountSQL(table, where), args...).Scan(&n)
	return n, err
}

func exists(ctx context.Context, db database.Querier, q string, args ...interface{}) (bool, error) {
	var ok bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS("+q+")", args...).Scan(&ok)
	return ok, err
}

// distinct collects a single text column from every row of q
func distinct(ctx context.Context, db database.Querier, q string, args ...interface{}) ([]string, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullRef(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func refPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// likePattern builds an ILIKE operand that matches text literally anywhere
func likePattern(text string) string {
	return "%" + query.EscapeLike(text) + "%"
}
