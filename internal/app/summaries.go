package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// Summaries exposes the aggregated monthly views.
type Summaries struct {
	dc     *DataContext
	reader ports.SummaryReader
	logger *log.Logger
}

func (s *Summaries) Monthly(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	if err := s.dc.ready(); err != nil {
		return core.MonthlySummary{}, err
	}
	return s.reader.MonthlySummary(ctx, year, month)
}

func (s *Summaries) Daily(ctx context.Context, year, month int) ([]core.DailyTotal, error) {
	if err := s.dc.ready(); err != nil {
		return nil, err
	}
	return s.reader.DailyTotals(ctx, year, month)
}

func (s *Summaries) Categories(ctx context.Context, year, month int) ([]core.CategoryTotal, error) {
	if err := s.dc.ready(); err != nil {
		return nil, err
	}
	return s.reader.CategoryTotals(ctx, year, month)
}

func (s *Summaries) CategoriesByType(ctx context.Context, year, month int, txType core.TransactionType) ([]core.CategoryTotal, error) {
	if err := s.dc.ready(); err != nil {
		return nil, err
	}
	return s.reader.CategoryTotalsByType(ctx, year, month, txType)
}

// MonthView fetches the summary, daily and category views of one month concurrently.
// The three reads are independent statements and do not share a snapshot.
func (s *Summaries) MonthView(ctx context.Context, year, month int) (core.MonthView, error) {
	if err := s.dc.ready(); err != nil {
		return core.MonthView{}, err
	}
	if _, err := core.NewMonthWindow(year, month); err != nil {
		return core.MonthView{}, err
	}

	view := core.MonthView{Year: year, Month: month}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.reader.MonthlySummary(gctx, year, month)
		if err != nil {
			return fmt.Errorf("monthly summary: %w", err)
		}
		view.Summary = summary
		return nil
	})
	g.Go(func() error {
		daily, err := s.reader.DailyTotals(gctx, year, month)
		if err != nil {
			return fmt.Errorf("daily totals: %w", err)
		}
		view.Daily = daily
		return nil
	})
	g.Go(func() error {
		categories, err := s.reader.CategoryTotals(gctx, year, month)
		if err != nil {
			return fmt.Errorf("category totals: %w", err)
		}
		view.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to build month view",
			log.FieldOperation, log.OpSummary,
			log.FieldYear, year,
			log.FieldMonth, month,
			log.FieldError, err)
		return core.MonthView{}, err
	}

	s.logger.DebugContext(ctx, "Month view built",
		log.FieldYear, year,
		log.FieldMonth, month,
		"days", len(view.Daily),
		"categories", len(view.Categories))
	return view, nil
}
