package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fintrack/internal/core"
)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Width(10)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Headers(headers...)
}

func writeTable(w io.Writer, t *table.Table) error {
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// signedAmount prints an amount with the sign of its type and the matching colour.
func signedAmount(tx core.Transaction) string {
	if tx.Type == core.Income {
		return incomeStyle.Render("+" + core.FormatAmount(tx.Amount))
	}
	return expenseStyle.Render("-" + core.FormatAmount(tx.Amount))
}

func categoryLabel(id core.CategoryID) string {
	c := core.ResolveCategory(id)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Name)
}

func renderTransactions(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No transactions"))
		return err
	}

	t := newTable("ID", "DATE", "NAME", "CATEGORY", "AMOUNT")
	for _, tx := range txs {
		t.Row(strconv.FormatInt(tx.ID, 10), tx.Date.String(), tx.Name, categoryLabel(tx.Category), signedAmount(tx))
	}
	return writeTable(w, t)
}

func renderTransaction(w io.Writer, tx core.Transaction) error {
	lines := [][2]string{
		{"ID", strconv.FormatInt(tx.ID, 10)},
		{"Name", tx.Name},
		{"Date", tx.Date.String()},
		{"Type", tx.Type.String()},
		{"Category", fmt.Sprintf("%s (%s)", categoryLabel(tx.Category), tx.Category)},
		{"Amount", signedAmount(tx)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, labelStyle.Render(l[0])+l[1]); err != nil {
			return err
		}
	}
	return nil
}

func renderMonthView(w io.Writer, view core.MonthView) error {
	s := view.Summary
	balance := incomeStyle.Render(core.FormatAmount(s.Balance))
	if s.Balance.IsNegative() {
		balance = expenseStyle.Render(core.FormatAmount(s.Balance))
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Summary %04d-%02d", view.Year, view.Month)))
	fmt.Fprintln(w, labelStyle.Render("Income")+incomeStyle.Render(core.FormatAmount(s.Income)))
	fmt.Fprintln(w, labelStyle.Render("Expense")+expenseStyle.Render(core.FormatAmount(s.Expense)))
	if _, err := fmt.Fprintln(w, labelStyle.Render("Balance")+balance); err != nil {
		return err
	}

	if len(view.Categories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("By category"))
		t := newTable("CATEGORY", "INCOME", "EXPENSE")
		for _, c := range view.Categories {
			t.Row(categoryLabel(c.Category), core.FormatAmount(c.Income), core.FormatAmount(c.Expense))
		}
		if err := writeTable(w, t); err != nil {
			return err
		}
	}

	var active []core.DailyTotal
	for _, d := range view.Daily {
		if !d.Income.IsZero() || !d.Expense.IsZero() {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("By day"))
	t := newTable("DATE", "INCOME", "EXPENSE")
	for _, d := range active {
		t.Row(d.Date.String(), core.FormatAmount(d.Income), core.FormatAmount(d.Expense))
	}
	return writeTable(w, t)
}

func renderCategories(w io.Writer, categories []core.Category) error {
	t := newTable("ID", "NAME", "ICON")
	for _, c := range categories {
		t.Row(string(c.ID), categoryLabel(c.ID), mutedStyle.Render(c.Icon))
	}
	return writeTable(w, t)
}
