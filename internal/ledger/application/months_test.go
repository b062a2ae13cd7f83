package application

import (
	"testing"
	"time"

	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
	"github.com/stretchr/testify/assert"
)

func TestCurrentMonthRange(t *testing.T) {
	now := time.Date(2024, time.February, 14, 9, 30, 0, 0, time.UTC)
	start, end := CurrentMonthRange(now)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveNamedPeriod_Quarter(t *testing.T) {
	tests := []struct {
		now   time.Time
		start time.Time
		end   time.Time
	}{
		{
			now:   time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			now:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
			start: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			now:   time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			start: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		start, end, err := ResolveNamedPeriod(PeriodQuarter, tc.now)
		assert.NoError(t, err)
		assert.Equal(t, tc.start, start)
		assert.Equal(t, tc.end, end)
	}
}

func TestResolveNamedPeriod_Year(t *testing.T) {
	now := time.Date(2024, time.August, 20, 0, 0, 0, 0, time.UTC)
	start, end, err := ResolveNamedPeriod(PeriodYear, now)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveNamedPeriod_Invalid(t *testing.T) {
	_, _, err := ResolveNamedPeriod("fortnight", time.Now())
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestTrailingMonthsRange(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	start, end := TrailingMonthsRange(now, 12)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), end)

	start, end = TrailingMonthsRange(now, 1)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthsInRange_CrossesYearBoundary(t *testing.T) {
	start := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)

	months := MonthsInRange(start, end)
	assert.Equal(t, 4, len(months))
	assert.Equal(t, "Nov 2023", MonthLabel(months[0]))
	assert.Equal(t, "Dec 2023", MonthLabel(months[1]))
	assert.Equal(t, "Jan 2024", MonthLabel(months[2]))
	assert.Equal(t, "Feb 2024", MonthLabel(months[3]))
}

func TestMonthsInRange_SingleMonth(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	months := MonthsInRange(start, end)
	assert.Equal(t, 1, len(months))
}

func TestValidateRange(t *testing.T) {
	start := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, ValidateRange(start, end), ledgerErrors.ErrInvalidRange)
	assert.NoError(t, ValidateRange(end, start))
	assert.NoError(t, ValidateRange(end, end))
}
