package application

import (
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
)

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(t time.Time) time.Time {
	// Day 0 of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// CurrentMonthRange returns [1st, last day] of now's calendar month.
func CurrentMonthRange(now time.Time) (time.Time, time.Time) {
	return firstOfMonth(now), lastOfMonth(now)
}

// ResolveNamedPeriod maps a named period onto a concrete window:
// "month" is the current calendar month, "quarter" the current
// floor(month/3) block, "year" Jan 1 through Dec 31.
func ResolveNamedPeriod(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case PeriodMonth, "":
		start, end := CurrentMonthRange(now)
		return start, end, nil
	case PeriodQuarter:
		quarter := (int(now.Month()) - 1) / 3
		start := time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(now.Year(), time.Month(quarter*3+4), 0, 0, 0, 0, 0, time.UTC)
		return start, end, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, ledgerErrors.NewValidationError("Period must be one of month, quarter, year")
	}
}

// TrailingMonthsRange returns a window spanning the given number of
// whole calendar months ending with now's month.
func TrailingMonthsRange(now time.Time, months int) (time.Time, time.Time) {
	return firstOfMonth(now).AddDate(0, -(months - 1), 0), lastOfMonth(now)
}

// MonthsInRange enumerates every calendar month from startDate to
// endDate inclusive, as first-of-month dates in chronological order.
func MonthsInRange(startDate, endDate time.Time) []time.Time {
	var months []time.Time
	end := firstOfMonth(endDate)
	for current := firstOfMonth(startDate); !current.After(end); current = current.AddDate(0, 1, 0) {
		months = append(months, current)
	}
	return months
}

// MonthLabel formats a month as e.g. "Jun 2025".
func MonthLabel(month time.Time) string {
	return month.Format("Jan 2006")
}

func monthKey(month time.Time) domain.MonthKey {
	return domain.MonthKey{Year: month.Year(), Month: month.Month()}
}

// ValidateRange rejects explicitly supplied inverted windows.
func ValidateRange(startDate, endDate time.Time) error {
	if startDate.After(endDate) {
		return ledgerErrors.ErrInvalidRange
	}
	return nil
}
