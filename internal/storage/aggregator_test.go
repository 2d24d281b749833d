package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCoffeeScenario(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	mustAdd(t, s, tx("Coffee", "4.50", "food", core.NewDate(2024, 3, 5), core.Expense))

	summary, err := agg.MonthlySummary(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if summary.Expense.LessThan(dec("4.5")) {
		t.Fatalf("expected expense >= 4.50, got %s", summary.Expense)
	}

	daily, err := agg.DailyTotals(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}
	if got := daily[4]; got.Date.String() != "2024-03-05" || !got.Expense.Equal(dec("4.5")) || !got.Income.IsZero() {
		t.Fatalf("unexpected day 5 entry %+v", got)
	}

	cats, err := agg.CategoryTotals(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	want := []core.CategoryTotal{{Category: "food", Income: decimal.Zero, Expense: dec("4.5")}}
	if diff := cmp.Diff(want, cats); diff != "" {
		t.Fatalf("category totals mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthlySummary(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	mustAdd(t, s, tx("Salary", "1200", "3", core.NewDate(2024, 3, 27), core.Income))
	mustAdd(t, s, tx("Coffee", "4.5", "5", core.NewDate(2024, 3, 5), core.Expense))
	mustAdd(t, s, tx("Bus", "2.25", "6", core.NewDate(2024, 3, 5), core.Expense))
	mustAdd(t, s, tx("Other month", "1000", "5", core.NewDate(2024, 4, 1), core.Expense))

	got, err := agg.MonthlySummary(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	want := core.MonthlySummary{Income: dec("1200"), Expense: dec("6.75"), Balance: dec("1193.25")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if !got.Balance.Equal(got.Income.Sub(got.Expense)) {
		t.Fatalf("balance must equal income - expense")
	}

	empty, err := agg.MonthlySummary(ctx, 2023, 1)
	if err != nil {
		t.Fatalf("empty month: %v", err)
	}
	if !empty.Income.IsZero() || !empty.Expense.IsZero() || !empty.Balance.IsZero() {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestDailyTotalsLength(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)

	mustAdd(t, s, tx("Leap", "10", "5", core.NewDate(2024, 2, 29), core.Income))
	mustAdd(t, s, tx("Leap", "0.25", "5", core.NewDate(2024, 2, 29), core.Expense))

	tests := []struct {
		year, month, days int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tt := range tests {
		got, err := agg.DailyTotals(context.Background(), tt.year, tt.month)
		if err != nil {
			t.Fatalf("%d-%02d: %v", tt.year, tt.month, err)
		}
		if len(got) != tt.days {
			t.Fatalf("%d-%02d: expected %d entries, got %d", tt.year, tt.month, tt.days, len(got))
		}
		for i, d := range got {
			if d.Date.Day() != i+1 || d.Date.Month() != tt.month {
				t.Fatalf("%d-%02d: entry %d has date %s", tt.year, tt.month, i, d.Date)
			}
			if d.Income.IsNegative() || d.Expense.IsNegative() {
				t.Fatalf("%d-%02d: negative entry %+v", tt.year, tt.month, d)
			}
		}
	}

	feb, _ := agg.DailyTotals(context.Background(), 2024, 2)
	last := feb[28]
	if !last.Income.Equal(dec("10")) || !last.Expense.Equal(dec("0.25")) {
		t.Fatalf("unexpected Feb 29 entry %+v", last)
	}
	if !feb[0].Income.IsZero() || !feb[0].Expense.IsZero() {
		t.Fatalf("expected zero-filled Feb 1, got %+v", feb[0])
	}
}

func TestCategoryTotalsOrdering(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)

	mustAdd(t, s, tx("Groceries", "50", "5", core.NewDate(2024, 3, 2), core.Expense))
	mustAdd(t, s, tx("Refund", "10", "5", core.NewDate(2024, 3, 3), core.Income))
	mustAdd(t, s, tx("Salary", "1200", "3", core.NewDate(2024, 3, 27), core.Income))
	mustAdd(t, s, tx("Train", "60", "6", core.NewDate(2024, 3, 9), core.Expense))
	mustAdd(t, s, tx("Unknown", "60", "zzz", core.NewDate(2024, 3, 9), core.Expense))
	mustAdd(t, s, tx("February", "999", "9", core.NewDate(2024, 2, 9), core.Expense))

	got, err := agg.CategoryTotals(context.Background(), 2024, 3)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}

	want := []core.CategoryTotal{
		{Category: "3", Income: dec("1200"), Expense: decimal.Zero},
		{Category: "5", Income: dec("10"), Expense: dec("50")},
		{Category: "6", Income: decimal.Zero, Expense: dec("60")},
		{Category: "zzz", Income: decimal.Zero, Expense: dec("60")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("category totals mismatch (-want +got):\n%s", diff)
	}
	for _, c := range got {
		if c.Income.IsZero() && c.Expense.IsZero() {
			t.Fatalf("double-zero entry %+v", c)
		}
	}
}

func TestCategoryTotalsByType(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	mustAdd(t, s, tx("Groceries", "50", "5", core.NewDate(2024, 3, 2), core.Expense))
	mustAdd(t, s, tx("Refund", "10", "5", core.NewDate(2024, 3, 3), core.Income))
	mustAdd(t, s, tx("Train", "60", "6", core.NewDate(2024, 3, 9), core.Expense))

	expenses, err := agg.CategoryTotalsByType(ctx, 2024, 3, core.Expense)
	if err != nil {
		t.Fatalf("expense totals: %v", err)
	}
	want := []core.CategoryTotal{
		{Category: "6", Income: decimal.Zero, Expense: dec("60")},
		{Category: "5", Income: decimal.Zero, Expense: dec("50")},
	}
	if diff := cmp.Diff(want, expenses); diff != "" {
		t.Fatalf("expense totals mismatch (-want +got):\n%s", diff)
	}

	income, err := agg.CategoryTotalsByType(ctx, 2024, 3, core.Income)
	if err != nil {
		t.Fatalf("income totals: %v", err)
	}
	if len(income) != 1 || income[0].Category != "5" || !income[0].Income.Equal(dec("10")) {
		t.Fatalf("unexpected income totals %+v", income)
	}

	if _, err := agg.CategoryTotalsByType(ctx, 2024, 3, "transfer"); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestCategoryTotalsSkipsZeroSums(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	// The store does not validate, so zero and sub-cent rows can reach the table.
	mustAdd(t, s, tx("Free sample", "0", "7", core.NewDate(2024, 3, 4), core.Expense))
	mustAdd(t, s, tx("Dust", "0.001", "8", core.NewDate(2024, 3, 4), core.Income))
	mustAdd(t, s, tx("Groceries", "50", "5", core.NewDate(2024, 3, 2), core.Expense))

	got, err := agg.CategoryTotals(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	want := []core.CategoryTotal{{Category: "5", Income: decimal.Zero, Expense: dec("50")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("category totals mismatch (-want +got):\n%s", diff)
	}

	income, err := agg.CategoryTotalsByType(ctx, 2024, 3, core.Income)
	if err != nil {
		t.Fatalf("income totals: %v", err)
	}
	if len(income) != 0 {
		t.Fatalf("expected no income entries, got %+v", income)
	}
}

func TestSumsRoundToCents(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	mustAdd(t, s, tx("Gum", "0.1", "5", core.NewDate(2024, 3, 5), core.Expense))
	mustAdd(t, s, tx("Mints", "0.2", "5", core.NewDate(2024, 3, 5), core.Expense))
	mustAdd(t, s, tx("Tip", "0.1", "3", core.NewDate(2024, 3, 5), core.Income))
	mustAdd(t, s, tx("Tip", "0.2", "3", core.NewDate(2024, 3, 5), core.Income))

	summary, err := agg.MonthlySummary(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	daily, err := agg.DailyTotals(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}
	cats, err := agg.CategoryTotals(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	expenses, err := agg.CategoryTotalsByType(ctx, 2024, 3, core.Expense)
	if err != nil {
		t.Fatalf("expense totals: %v", err)
	}
	if len(daily) < 5 || len(cats) != 2 || len(expenses) != 1 {
		t.Fatalf("unexpected shapes: %d days, %d categories, %d expense entries", len(daily), len(cats), len(expenses))
	}
	byCategory := make(map[core.CategoryID]core.CategoryTotal, len(cats))
	for _, c := range cats {
		byCategory[c.Category] = c
	}

	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"monthly expense", summary.Expense, "0.3"},
		{"monthly income", summary.Income, "0.3"},
		{"monthly balance", summary.Balance, "0"},
		{"daily expense", daily[4].Expense, "0.3"},
		{"daily income", daily[4].Income, "0.3"},
		{"category expense", byCategory["5"].Expense, "0.3"},
		{"category income", byCategory["3"].Income, "0.3"},
		{"expense by type", expenses[0].Expense, "0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestAggregatorErrors(t *testing.T) {
	s := newTestStore(t)
	agg := NewSummaryAggregator(s)
	ctx := context.Background()

	if _, err := agg.MonthlySummary(ctx, 2024, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := agg.DailyTotals(ctx, 2024, 0); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := agg.MonthlySummary(ctx, 2024, 3); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := agg.CategoryTotals(ctx, 2024, 3); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
