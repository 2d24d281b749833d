package app

import (
	"context"
	"fmt"
	"io"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// Transactions validates input and forwards it to the store. The store itself accepts
// anything, so this is the only validation gate.
type Transactions struct {
	dc     *DataContext
	store  ports.TransactionStore
	logger *log.Logger
}

// Add validates tx and inserts it, returning the new id.
func (t *Transactions) Add(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := t.dc.ready(); err != nil {
		return 0, err
	}
	if err := tx.Validate(); err != nil {
		t.logger.WarnContext(ctx, "Rejected transaction",
			log.FieldOperation, log.OpValidate,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, err)
		return 0, fmt.Errorf("add transaction: %w", err)
	}

	id, err := t.store.Add(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	return id, nil
}

func (t *Transactions) Get(ctx context.Context, id int64) (core.Transaction, error) {
	if err := t.dc.ready(); err != nil {
		return core.Transaction{}, err
	}
	return t.store.Get(ctx, id)
}

// All returns every transaction, newest first.
func (t *Transactions) All(ctx context.Context) ([]core.Transaction, error) {
	if err := t.dc.ready(); err != nil {
		return nil, err
	}
	return t.store.GetAll(ctx)
}

// ByMonth returns the transactions of one month, oldest first.
func (t *Transactions) ByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	if err := t.dc.ready(); err != nil {
		return nil, err
	}
	return t.store.GetByMonth(ctx, year, month)
}

// Update validates tx and replaces the stored transaction with the given id.
func (t *Transactions) Update(ctx context.Context, id int64, tx core.Transaction) error {
	if err := t.dc.ready(); err != nil {
		return err
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	return t.store.Update(ctx, id, tx)
}

func (t *Transactions) Delete(ctx context.Context, id int64) error {
	if err := t.dc.ready(); err != nil {
		return err
	}
	return t.store.Delete(ctx, id)
}

// Dump writes the raw table contents to w.
func (t *Transactions) Dump(ctx context.Context, w io.Writer) error {
	if err := t.dc.ready(); err != nil {
		return err
	}
	return t.store.DumpTable(ctx, w)
}
