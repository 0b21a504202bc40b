package postgres

import (
	"context"
	"database/sql"
)

// Querier abstracts over *sql.DB and *sql.Tx so every repository can run
// either standalone or bound to the transaction a Store.WithinTx opened.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
