package storage

import (
	"context"
	"database/sql"
	"strings"

	"fintrack/internal/log"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// tracedDB logs every statement at debug level before handing it to the driver.
type tracedDB struct {
	DBTX
	logger *log.Logger
}

func (t tracedDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := t.DBTX.ExecContext(ctx, query, args...)
	attrs := []any{log.FieldStatement, compactSQL(query), "args", args}
	if err != nil {
		t.logger.DebugContext(ctx, "SQL exec failed", append(attrs, log.FieldError, err)...)
		return res, err
	}
	if n, rerr := res.RowsAffected(); rerr == nil {
		attrs = append(attrs, log.FieldRows, n)
	}
	t.logger.DebugContext(ctx, "SQL exec", attrs...)
	return res, nil
}

func (t tracedDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	t.logger.DebugContext(ctx, "SQL query", log.FieldStatement, compactSQL(query), "args", args)
	return t.DBTX.QueryContext(ctx, query, args...)
}

func (t tracedDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	t.logger.DebugContext(ctx, "SQL query row", log.FieldStatement, compactSQL(query), "args", args)
	return t.DBTX.QueryRowContext(ctx, query, args...)
}

// compactSQL folds a multi-line statement onto one line for log output.
func compactSQL(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
