package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"

	_ "modernc.org/sqlite"
)

// DBFileName is the fixed name of the database file inside the data directory.
const DBFileName = "FinanceTracker.db"

// MemoryPath opens a private in-memory database. Useful in tests.
const MemoryPath = ":memory:"

//go:embed schema.sql
var schema string

// State is the lifecycle position of a TransactionStore.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	// DebugSQL logs every statement at debug level.
	DebugSQL bool
	Logger   *log.Logger
}

// TransactionStore owns the single database connection and the CRUD operations on the
// transactions table. It does not validate transactions; callers do.
type TransactionStore struct {
	path   string
	opts   Options
	logger *log.Logger

	mu      sync.RWMutex
	state   State
	db      *sql.DB
	queries *Queries
}

// NewTransactionStore prepares a store for the database at path. Nothing is opened until
// Initialize is called.
func NewTransactionStore(path string, opts Options) *TransactionStore {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionStore{
		path:   path,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Initialize opens (or creates) the database, pins the pool to one connection and makes sure
// the transactions table exists.
func (s *TransactionStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return fmt.Errorf("initialize store in state %s: %w", s.state, ErrAlreadyInitialized)
	}

	db, err := s.open(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to open database",
			log.FieldOperation, log.OpInitialize,
			log.FieldPath, s.path,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase)
		return err
	}

	var conn DBTX = db
	if s.opts.DebugSQL {
		conn = tracedDB{DBTX: db, logger: s.logger}
	}

	s.db = db
	s.queries = New(conn)
	s.state = StateReady

	s.logger.InfoContext(ctx, "Transaction store ready", log.FieldPath, s.path)
	return nil
}

func (s *TransactionStore) open(ctx context.Context) (*sql.DB, error) {
	if s.path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w: %w", ErrStorageUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %w", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", ErrStorageUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w: %w", ErrStorageUnavailable, err)
	}

	return db, nil
}

// State reports the lifecycle state.
func (s *TransactionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Path returns the database location the store was created with.
func (s *TransactionStore) Path() string {
	return s.path
}

// acquire hands out the query set while holding the read lock, so Close waits for
// in-flight statements. The returned release func must be called.
func (s *TransactionStore) acquire() (*Queries, func(), error) {
	s.mu.RLock()
	if s.state != StateReady {
		state := s.state
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("store is %s: %w", state, ErrNotInitialized)
	}
	return s.queries, s.mu.RUnlock, nil
}

// Add inserts tx and returns the id assigned by the database.
func (s *TransactionStore) Add(ctx context.Context, tx core.Transaction) (int64, error) {
	q, release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := q.CreateTransaction(ctx, CreateTransactionParams{
		Name:     tx.Name,
		Amount:   tx.Amount.InexactFloat64(),
		Category: string(tx.Category),
		Date:     tx.Date.String(),
		Type:     string(tx.Type),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert transaction", log.NewFields().
			WithOperation(log.OpCreate).
			WithErrorType(log.ErrorTypeDatabase).
			WithError(err).
			ToSlice()...)
		return 0, fmt.Errorf("insert transaction: %w: %w", ErrWriteFailed, err)
	}

	fields := log.NewFields().
		WithOperation(log.OpCreate).
		WithTransaction(id, tx.Name, tx.Amount.String(), string(tx.Category), tx.Date.String(), string(tx.Type))
	s.logger.InfoContext(ctx, "Transaction saved", fields.ToSlice()...)

	return id, nil
}

// Get returns the transaction with the given id.
func (s *TransactionStore) Get(ctx context.Context, id int64) (core.Transaction, error) {
	q, release, err := s.acquire()
	if err != nil {
		return core.Transaction{}, err
	}
	defer release()

	row, err := q.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w: %w", id, ErrQueryFailed, err)
	}
	return toDomain(row)
}

// GetAll returns every transaction, newest date first.
func (s *TransactionStore) GetAll(ctx context.Context) ([]core.Transaction, error) {
	q, release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := q.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w: %w", ErrQueryFailed, err)
	}
	s.traceRows(ctx, log.OpList, len(rows))
	return toDomainList(rows)
}

// GetByMonth returns the transactions dated within the given month, oldest first.
func (s *TransactionStore) GetByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	q, release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	window, err := core.NewMonthWindow(year, month)
	if err != nil {
		return nil, err
	}
	start, end := window.Bounds()

	rows, err := q.ListTransactionsByDateRange(ctx, DateRangeParams{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w: %w", window, ErrQueryFailed, err)
	}
	s.traceRows(ctx, log.OpList, len(rows))
	return toDomainList(rows)
}

// Update replaces every field except the id of the transaction with the given id.
func (s *TransactionStore) Update(ctx context.Context, id int64, tx core.Transaction) error {
	q, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	n, err := q.UpdateTransaction(ctx, UpdateTransactionParams{
		ID:       id,
		Name:     tx.Name,
		Amount:   tx.Amount.InexactFloat64(),
		Category: string(tx.Category),
		Date:     tx.Date.String(),
		Type:     string(tx.Type),
	})
	if err != nil {
		return fmt.Errorf("update transaction %d: %w: %w", id, ErrWriteFailed, err)
	}
	if n == 0 {
		s.logger.WarnContext(ctx, "No transaction to update", log.FieldOperation, log.OpUpdate,
			log.FieldTransactionID, id, log.FieldErrorType, log.ErrorTypeNotFound)
		return fmt.Errorf("update transaction %d: %w", id, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Transaction updated", log.FieldOperation, log.OpUpdate, log.FieldTransactionID, id)
	return nil
}

// Delete removes the transaction with the given id.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	q, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	n, err := q.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w: %w", id, ErrWriteFailed, err)
	}
	if n == 0 {
		s.logger.WarnContext(ctx, "No transaction to delete", log.FieldOperation, log.OpDelete,
			log.FieldTransactionID, id, log.FieldErrorType, log.ErrorTypeNotFound)
		return fmt.Errorf("delete transaction %d: %w", id, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldOperation, log.OpDelete, log.FieldTransactionID, id)
	return nil
}

// DumpTable writes the row count and every row of the transactions table to w.
func (s *TransactionStore) DumpTable(ctx context.Context, w io.Writer) error {
	q, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	count, err := q.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("count transactions: %w: %w", ErrQueryFailed, err)
	}
	rows, err := q.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("dump transactions: %w: %w", ErrQueryFailed, err)
	}
	s.traceRows(ctx, log.OpDump, len(rows))

	if _, err := fmt.Fprintf(w, "transactions: %d rows\n", count); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "id=%d name=%q amount=%v category=%s date=%s type=%s\n",
			r.ID, r.Name, r.Amount, r.Category, r.Date, r.Type); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the connection. The store cannot be reopened.
func (s *TransactionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = StateClosed
	if prev != StateReady || s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	s.queries = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	s.logger.Info("Transaction store closed", log.FieldPath, s.path)
	return nil
}

func (s *TransactionStore) traceRows(ctx context.Context, op string, n int) {
	if s.opts.DebugSQL {
		s.logger.DebugContext(ctx, "SQL rows", log.FieldOperation, op, log.FieldRows, n)
	}
}

func toDomain(r Transaction) (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction %d: %w: %w", r.ID, ErrQueryFailed, err)
	}
	return core.Transaction{
		ID:       r.ID,
		Name:     r.Name,
		Amount:   decimal.NewFromFloat(r.Amount),
		Category: core.CategoryID(r.Category),
		Date:     date,
		Type:     core.TransactionType(r.Type),
	}, nil
}

func toDomainList(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := toDomain(r)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
