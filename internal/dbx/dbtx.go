// Package dbx holds the minimal database/sql surface shared by the local
// repositories, so the same repository code runs against *sql.DB, *sql.Tx
// or a sqlmock connection.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the metadata repository.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
