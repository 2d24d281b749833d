package core

import "github.com/shopspring/decimal"

// MonthlySummary holds the totals of one calendar month.
type MonthlySummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal // Income - Expense
}

// NewMonthlySummary derives the balance from the two totals.
func NewMonthlySummary(income, expense decimal.Decimal) MonthlySummary {
	return MonthlySummary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// DailyTotal is one bar of the daily chart.
type DailyTotal struct {
	Date    Date
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is one slice of the category chart.
type CategoryTotal struct {
	Category CategoryID
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

// Total returns income plus expense, the ordering key of category listings.
func (c CategoryTotal) Total() decimal.Decimal {
	return c.Income.Add(c.Expense)
}

// MonthView bundles every aggregate of one month, as shown on the overview screen.
type MonthView struct {
	Year       int
	Month      int // 1-12
	Summary    MonthlySummary
	Daily      []DailyTotal
	Categories []CategoryTotal
}
