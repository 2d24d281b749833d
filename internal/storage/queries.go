package storage

import (
	"context"
)

const createTransaction = `-- name: CreateTransaction :execlastid
INSERT INTO transactions (name, amount, category, date, type)
VALUES (?, ?, ?, ?, ?)
`

type CreateTransactionParams struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createTransaction,
		arg.Name,
		arg.Amount,
		arg.Category,
		arg.Date,
		arg.Type,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, name, amount, category, date, type FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Amount,
		&i.Category,
		&i.Date,
		&i.Type,
	)
	return i, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, name, amount, category, date, type FROM transactions
ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactions)
}

const listTransactionsByDateRange = `-- name: ListTransactionsByDateRange :many
SELECT id, name, amount, category, date, type FROM transactions
WHERE date >= ? AND date < ?
ORDER BY date ASC, id ASC
`

type DateRangeParams struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (q *Queries) ListTransactionsByDateRange(ctx context.Context, arg DateRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByDateRange, arg.Start, arg.End)
}

func (q *Queries) listTransactions(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Amount,
			&i.Category,
			&i.Date,
			&i.Type,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET name = ?, amount = ?, category = ?, date = ?, type = ?
WHERE id = ?
`

type UpdateTransactionParams struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	ID       int64   `json:"id"`
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Name,
		arg.Amount,
		arg.Category,
		arg.Date,
		arg.Type,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTransactions = `-- name: CountTransactions :one
SELECT COUNT(*) FROM transactions
`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getMonthlyTotals = `-- name: GetMonthlyTotals :one
SELECT
    COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0.0) AS income,
    COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0.0) AS expense
FROM transactions
WHERE date >= ? AND date < ?
`

type GetMonthlyTotalsRow struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

func (q *Queries) GetMonthlyTotals(ctx context.Context, arg DateRangeParams) (GetMonthlyTotalsRow, error) {
	row := q.db.QueryRowContext(ctx, getMonthlyTotals, arg.Start, arg.End)
	var i GetMonthlyTotalsRow
	err := row.Scan(&i.Income, &i.Expense)
	return i, err
}

const getDailyTotals = `-- name: GetDailyTotals :many
SELECT
    date,
    COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0.0) AS income,
    COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0.0) AS expense
FROM transactions
WHERE date >= ? AND date < ?
GROUP BY date
ORDER BY date ASC
`

type GetDailyTotalsRow struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

func (q *Queries) GetDailyTotals(ctx context.Context, arg DateRangeParams) ([]GetDailyTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, getDailyTotals, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetDailyTotalsRow{}
	for rows.Next() {
		var i GetDailyTotalsRow
		if err := rows.Scan(&i.Date, &i.Income, &i.Expense); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryTotals = `-- name: GetCategoryTotals :many
SELECT
    category,
    COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0.0) AS income,
    COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0.0) AS expense
FROM transactions
WHERE date >= ? AND date < ? AND type IN ('income', 'expense')
GROUP BY category
HAVING COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0.0) <> 0
    OR COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0.0) <> 0
ORDER BY SUM(amount) DESC, category ASC
`

type GetCategoryTotalsRow struct {
	Category string  `json:"category"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
}

func (q *Queries) GetCategoryTotals(ctx context.Context, arg DateRangeParams) ([]GetCategoryTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryTotals, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetCategoryTotalsRow{}
	for rows.Next() {
		var i GetCategoryTotalsRow
		if err := rows.Scan(&i.Category, &i.Income, &i.Expense); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryTotalsByType = `-- name: GetCategoryTotalsByType :many
SELECT category, SUM(amount) AS total
FROM transactions
WHERE date >= ? AND date < ? AND type = ?
GROUP BY category
HAVING SUM(amount) > 0
ORDER BY total DESC, category ASC
`

type GetCategoryTotalsByTypeParams struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"type"`
}

type GetCategoryTotalsByTypeRow struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

func (q *Queries) GetCategoryTotalsByType(ctx context.Context, arg GetCategoryTotalsByTypeParams) ([]GetCategoryTotalsByTypeRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryTotalsByType, arg.Start, arg.End, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetCategoryTotalsByTypeRow{}
	for rows.Next() {
		var i GetCategoryTotalsByTypeRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
