package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SummaryAggregator computes the monthly views over the store's connection. Each view is a
// single grouped statement, so income and expense of one view come from the same snapshot.
type SummaryAggregator struct {
	store  *TransactionStore
	logger *log.Logger
}

func NewSummaryAggregator(store *TransactionStore) *SummaryAggregator {
	return &SummaryAggregator{
		store:  store,
		logger: store.logger.WithComponent(log.ComponentAggregator),
	}
}

// month resolves the window before taking the connection so bad input never touches the
// database.
func (a *SummaryAggregator) month(year, month int) (DateRangeParams, core.MonthWindow, error) {
	window, err := core.NewMonthWindow(year, month)
	if err != nil {
		return DateRangeParams{}, core.MonthWindow{}, err
	}
	start, end := window.Bounds()
	return DateRangeParams{Start: start, End: end}, window, nil
}

// MonthlySummary returns income, expense and balance for the month. Months without
// transactions yield zeros.
func (a *SummaryAggregator) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	q, release, err := a.store.acquire()
	if err != nil {
		return core.MonthlySummary{}, err
	}
	defer release()

	params, window, err := a.month(year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	row, err := q.GetMonthlyTotals(ctx, params)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to compute monthly summary", summaryFields(year, month, err)...)
		return core.MonthlySummary{}, fmt.Errorf("monthly summary %s: %w: %w", window, ErrQueryFailed, err)
	}

	return core.NewMonthlySummary(
		sumOf(row.Income),
		sumOf(row.Expense),
	), nil
}

// DailyTotals returns one entry per calendar day of the month in date order. Days without
// transactions are zero.
func (a *SummaryAggregator) DailyTotals(ctx context.Context, year, month int) ([]core.DailyTotal, error) {
	q, release, err := a.store.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, window, err := a.month(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := q.GetDailyTotals(ctx, params)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to compute daily totals", summaryFields(year, month, err)...)
		return nil, fmt.Errorf("daily totals %s: %w: %w", window, ErrQueryFailed, err)
	}

	dates := window.Dates()
	totals := make([]core.DailyTotal, len(dates))
	for i, d := range dates {
		totals[i] = core.DailyTotal{Date: d, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, r := range rows {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("daily totals %s: %w: %w", window, ErrQueryFailed, err)
		}
		idx := d.Day() - 1
		if idx < 0 || idx >= len(totals) {
			continue
		}
		totals[idx].Income = sumOf(r.Income)
		totals[idx].Expense = sumOf(r.Expense)
	}

	return totals, nil
}

// CategoryTotals returns income and expense per category for the month, largest combined
// total first and ties by category id. Categories without transactions are omitted.
func (a *SummaryAggregator) CategoryTotals(ctx context.Context, year, month int) ([]core.CategoryTotal, error) {
	q, release, err := a.store.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, window, err := a.month(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := q.GetCategoryTotals(ctx, params)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to compute category totals", summaryFields(year, month, err)...)
		return nil, fmt.Errorf("category totals %s: %w: %w", window, ErrQueryFailed, err)
	}

	totals := make([]core.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		ct := core.CategoryTotal{
			Category: core.CategoryID(r.Category),
			Income:   sumOf(r.Income),
			Expense:  sumOf(r.Expense),
		}
		// Sub-cent sums round to zero
		if ct.Income.IsZero() && ct.Expense.IsZero() {
			continue
		}
		totals = append(totals, ct)
	}
	return totals, nil
}

// CategoryTotalsByType is CategoryTotals restricted to one transaction type. The other side
// of every entry is zero.
func (a *SummaryAggregator) CategoryTotalsByType(ctx context.Context, year, month int, txType core.TransactionType) ([]core.CategoryTotal, error) {
	if !txType.Valid() {
		return nil, fmt.Errorf("category totals: %w: %q", core.ErrInvalidType, txType)
	}

	q, release, err := a.store.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, window, err := a.month(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := q.GetCategoryTotalsByType(ctx, GetCategoryTotalsByTypeParams{
		Start: params.Start,
		End:   params.End,
		Type:  string(txType),
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to compute category totals by type",
			append(summaryFields(year, month, err), log.FieldType, string(txType))...)
		return nil, fmt.Errorf("%s category totals %s: %w: %w", txType, window, ErrQueryFailed, err)
	}

	totals := make([]core.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		ct := core.CategoryTotal{
			Category: core.CategoryID(r.Category),
			Income:   decimal.Zero,
			Expense:  decimal.Zero,
		}
		total := sumOf(r.Total)
		if total.IsZero() {
			continue
		}
		if txType == core.Income {
			ct.Income = total
		} else {
			ct.Expense = total
		}
		totals = append(totals, ct)
	}
	return totals, nil
}

// sumOf converts a REAL sum read back from SQLite. Float addition leaves noise below the
// cent (0.1 + 0.2 = 0.30000000000000004), so sums are rounded to core.AmountScale.
func sumOf(f float64) decimal.Decimal {
	return core.RoundAmount(decimal.NewFromFloat(f))
}

func summaryFields(year, month int, err error) []any {
	return log.NewFields().
		WithOperation(log.OpSummary).
		WithMonth(year, month).
		WithErrorType(log.ErrorTypeDatabase).
		WithError(err).
		ToSlice()
}
