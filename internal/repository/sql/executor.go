package sql

import (
	"context"
	"database/sql"
	"fmt"
)

// dbExecutor is an interface that represents either *sql.DB or *sql.Tx.
type dbExecutor interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn holds the database handle and, inside a transaction, the active tx.
type conn struct {
	db  *sql.DB
	txn *sql.Tx
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (c conn) getExecutor() dbExecutor {
	if c.txn != nil {
		return c.txn
	}
	return c.db
}

// exec prepares and executes a statement that returns no rows.
func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := c.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	return result, nil
}
