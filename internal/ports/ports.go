package ports

import (
	"context"
	"io"

	"fintrack/internal/core"
)

// Ports for the data context. The storage package provides the production implementations.
type (
	// Lifecycle opens and releases the underlying connection.
	Lifecycle interface {
		Initialize(ctx context.Context) error
		Close() error
	}

	TransactionWriter interface {
		// Add inserts tx and returns the id assigned by the store.
		Add(ctx context.Context, tx core.Transaction) (id int64, err error)
		Update(ctx context.Context, id int64, tx core.Transaction) error
		Delete(ctx context.Context, id int64) error
	}

	TransactionReader interface {
		Get(ctx context.Context, id int64) (core.Transaction, error)
		GetAll(ctx context.Context) ([]core.Transaction, error)
		GetByMonth(ctx context.Context, year int, month int) ([]core.Transaction, error)
	}

	// TableDumper writes a human readable dump of the persisted rows.
	TableDumper interface {
		DumpTable(ctx context.Context, w io.Writer) error
	}

	TransactionStore interface {
		Lifecycle
		TransactionWriter
		TransactionReader
		TableDumper
	}

	// SummaryReader provides the aggregated monthly views.
	SummaryReader interface {
		MonthlySummary(ctx context.Context, year int, month int) (core.MonthlySummary, error)
		DailyTotals(ctx context.Context, year int, month int) ([]core.DailyTotal, error)
		CategoryTotals(ctx context.Context, year int, month int) ([]core.CategoryTotal, error)
		CategoryTotalsByType(ctx context.Context, year int, month int, txType core.TransactionType) ([]core.CategoryTotal, error)
	}
)
