package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/log"
	"fintrack/internal/ports"
)

var (
	// ErrNotReady is returned for handle requests while the context is not Ready.
	ErrNotReady = errors.New("data context not ready")
)

// Status is the lifecycle position of a DataContext.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusErrored
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusErrored:
		return "errored"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// DataContext owns one store for the lifetime of the process and hands out the transaction
// and summary handles once the store is open.
type DataContext struct {
	store     ports.TransactionStore
	summaries ports.SummaryReader
	logger    *log.Logger
	sessionID string

	mu         sync.RWMutex
	status     Status
	err        error
	activating bool
}

// New wires an unopened store and its aggregator into a context. Nothing is opened until
// Activate is called.
func New(store ports.TransactionStore, summaries ports.SummaryReader, logger *log.Logger) *DataContext {
	if logger == nil {
		logger = log.Discard()
	}
	sessionID := uuid.NewString()
	return &DataContext{
		store:     store,
		summaries: summaries,
		logger:    logger.WithComponent(log.ComponentContext).With(log.NewFields().WithSessionID(sessionID).ToSlice()...),
		sessionID: sessionID,
		status:    StatusPending,
	}
}

// Activate initializes the store. On failure the context becomes Errored and keeps the
// reason; there is no retry. The lock is not held while the store opens, so Status and the
// handle getters answer immediately; a concurrent Activate gets ErrNotReady.
func (c *DataContext) Activate(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.status == StatusReady:
		c.mu.Unlock()
		return nil
	case c.status == StatusErrored:
		err := c.err
		c.mu.Unlock()
		return fmt.Errorf("activate: %w: %w", ErrNotReady, err)
	case c.status == StatusClosed:
		c.mu.Unlock()
		return fmt.Errorf("activate closed context: %w", ErrNotReady)
	case c.activating:
		c.mu.Unlock()
		return fmt.Errorf("activation in progress: %w", ErrNotReady)
	}
	c.activating = true
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Activating data context", log.FieldOperation, log.OpStartup)
	initErr := c.store.Initialize(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activating = false

	if c.status == StatusClosed {
		return fmt.Errorf("context closed during activation: %w", ErrNotReady)
	}
	if initErr != nil {
		c.status = StatusErrored
		c.err = initErr
		c.logger.ErrorContext(ctx, "Data context failed to initialize",
			log.FieldError, initErr,
			log.FieldErrorType, log.ErrorTypeDatabase)
		return fmt.Errorf("initialize store: %w", initErr)
	}

	c.status = StatusReady
	c.logger.InfoContext(ctx, "Data context ready")
	return nil
}

// Status reports the current lifecycle status.
func (c *DataContext) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the initialization failure of an Errored context.
func (c *DataContext) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// SessionID identifies this context in logs.
func (c *DataContext) SessionID() string {
	return c.sessionID
}

// Transactions returns the transaction handle. It fails unless the context is Ready.
func (c *DataContext) Transactions() (*Transactions, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return &Transactions{dc: c, store: c.store, logger: c.logger}, nil
}

// Summaries returns the summary handle. It fails unless the context is Ready.
func (c *DataContext) Summaries() (*Summaries, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return &Summaries{dc: c, reader: c.summaries, logger: c.logger}, nil
}

// Deactivate closes the store. The context cannot be activated again.
func (c *DataContext) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusClosed {
		return nil
	}
	c.status = StatusClosed

	if err := c.store.Close(); err != nil {
		c.logger.Error("Failed to close store", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		return fmt.Errorf("close store: %w", err)
	}

	c.logger.Info("Data context closed", log.FieldOperation, log.OpShutdown)
	return nil
}

func (c *DataContext) ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.status {
	case StatusReady:
		return nil
	case StatusErrored:
		return fmt.Errorf("%w: %w", ErrNotReady, c.err)
	default:
		return fmt.Errorf("%w: status %s", ErrNotReady, c.status)
	}
}
