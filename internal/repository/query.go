package repository

import (
	"errors"
	"log/slog"
)

const (
	// CategoryIDField restricts a product query to one category.
	CategoryIDField QueryField = "category_id"
)

// Query describes a product listing. A zero Limit without a Paginator returns every row.
type Query struct {
	Values map[QueryField]string

	Limit int

	Paginator *Paginator
}

type QueryField string

func NewQuery() *Query {
	return &Query{
		Values: map[QueryField]string{},
	}
}

func (q *Query) With(field QueryField, val string) *Query {
	q.Values[field] = val
	return q
}

// ApplyPagination clamps limit to the allowed range and decodes the page token if present.
func (q *Query) ApplyPagination(limit int32, token string) error {
	queryLimit := DefaultPaginationLimit
	if limit > 0 {
		queryLimit = min(maxPaginationLimit, int(limit))
	}
	q.Limit = queryLimit

	if token == "" {
		return nil
	}

	paginator, err := DecodePageToken(token)
	if err != nil {
		slog.Error("failed to decode page token", slog.Any("err", err), slog.String("token", token))
		return errors.Join(ErrInvalidPaginationToken, err)
	}
	q.Paginator = paginator
	return nil
}
