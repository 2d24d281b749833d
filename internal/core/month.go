package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthWindow is the half-open date range [Start, End) covering one calendar month.
type MonthWindow struct {
	Year  int
	Month int // 1-12
	Start Date
	End   Date // first day of the following month
}

// NewMonthWindow validates year and month and computes the window. December rolls over into
// January of the next year.
func NewMonthWindow(year, month int) (MonthWindow, error) {
	if year < 1 || year > MaxYear {
		return MonthWindow{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	if month < 1 || month > 12 {
		return MonthWindow{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}

	return MonthWindow{
		Year:  year,
		Month: month,
		Start: NewDate(year, month, 1),
		End:   NewDate(nextYear, nextMonth, 1),
	}, nil
}

// Days returns the number of calendar days in the month (28-31).
func (w MonthWindow) Days() int {
	return DaysInMonth(w.Year, w.Month)
}

// Dates lists every day of the month in ascending order.
func (w MonthWindow) Dates() []Date {
	days := w.Days()
	out := make([]Date, days)
	for i := 0; i < days; i++ {
		out[i] = NewDate(w.Year, w.Month, i+1)
	}
	return out
}

// Bounds returns the window edges in the stored text format.
func (w MonthWindow) Bounds() (start, end string) {
	return w.Start.String(), w.End.String()
}

func (w MonthWindow) String() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Month)
}

// DaysInMonth returns the length of the month, taking leap years into account.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseYearMonth parses "yyyy-MM" (e.g. "2024-03").
func ParseYearMonth(s string) (year, month int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected yyyy-MM, got %q", ErrInvalidMonth, s)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidYear, parts[0])
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonth, parts[1])
	}
	if _, err := NewMonthWindow(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// CurrentMonth returns the year and month of now.
func CurrentMonth(now time.Time) (year, month int) {
	return now.Year(), int(now.Month())
}
