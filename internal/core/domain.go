// Package core holds the finance domain: transactions, amounts, month windows and the
// category catalog.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and wire format of a transaction date.
const DateLayout = "2006-01-02"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MaxNameLength bounds the free-text label of a transaction.
const MaxNameLength = 200

// MaxYear is the last year whose month windows fit the yyyy-MM-dd format: December of the
// following year would end at 10000-01-01, which sorts before every 9999 date.
const MaxYear = 9998

// AmountScale is the number of fraction digits kept for amounts and their sums.
const AmountScale = 2

type (
	// TransactionType carries the direction of a transaction; amounts are never signed.
	TransactionType string

	// CategoryID references an entry of the external category catalog. It is opaque to the
	// store and the aggregator: unknown ids are kept as they are.
	CategoryID string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID       int64 // Assigned by the store, zero before insert
		Name     string
		Amount   decimal.Decimal
		Category CategoryID
		Date     Date
		Type     TransactionType
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyName     = errors.New("empty name")
	ErrNameTooLong   = fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	ErrEmptyCategory = errors.New("empty category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a yyyy-MM-dd string. Anything else, including out of range days such as
// 2023-02-29, is rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String formats the date as yyyy-MM-dd.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	if y := d.Time.Year(); y < 1 || y > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Valid reports whether t is one of the two known directions.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType accepts "income" or "expense" in any letter case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (c CategoryID) String() string {
	return string(c)
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !t.Amount.IsPositive() || !t.Amount.Equal(t.Amount.Round(AmountScale)) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(string(t.Category)) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
