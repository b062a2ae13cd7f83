package application

import (
	"context"
	"testing"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/infrastructure"
	"github.com/stretchr/testify/assert"
)

func endedRolloverBudget(category string, amount float64) domain.Budget {
	return domain.Budget{
		ID:        "b-" + category,
		UserID:    "user-1",
		Name:      category + " budget",
		Amount:    amount,
		Category:  category,
		Period:    "Monthly",
		StartDate: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
		Rollover:  true,
	}
}

func TestProcessEndedBudgets_CreatesSuccessor(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 300, Date: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)},
	}}
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{endedRolloverBudget("Food", 500)}}
	processor := NewRolloverProcessor(repo, NewEvaluator(store))

	now := time.Date(2024, time.June, 1, 2, 0, 0, 0, time.UTC)
	processed, err := processor.ProcessEndedBudgets(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 2, len(repo.Budgets))

	old := repo.Budgets[0]
	assert.False(t, old.IsActive)

	successor := repo.Budgets[1]
	assert.NotEqual(t, old.ID, successor.ID)
	assert.True(t, successor.IsActive)
	assert.Equal(t, 200.0, successor.RolloverAmount)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), successor.StartDate)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), successor.EndDate)
}

func TestProcessEndedBudgets_OverspentRollsZero(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 700, Date: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)},
	}}
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{endedRolloverBudget("Food", 500)}}
	processor := NewRolloverProcessor(repo, NewEvaluator(store))

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	processed, err := processor.ProcessEndedBudgets(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0.0, repo.Budgets[1].RolloverAmount)
}

func TestProcessEndedBudgets_IgnoresRunningBudgets(t *testing.T) {
	running := endedRolloverBudget("Food", 500)
	running.EndDate = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{running}}
	processor := NewRolloverProcessor(repo, NewEvaluator(&infrastructure.MockLedgerStore{}))

	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	processed, err := processor.ProcessEndedBudgets(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, len(repo.Budgets))
}

func TestProcessEndedBudgets_SkipsUnknownPeriod(t *testing.T) {
	odd := endedRolloverBudget("Food", 500)
	odd.Period = "Biweekly"
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{odd}}
	processor := NewRolloverProcessor(repo, NewEvaluator(&infrastructure.MockLedgerStore{}))

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	processed, err := processor.ProcessEndedBudgets(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, len(repo.Budgets))
	assert.True(t, repo.Budgets[0].IsActive)
}

func TestNextPeriodWindow_Quarterly(t *testing.T) {
	budget := endedRolloverBudget("Food", 500)
	budget.Period = "Quarterly"
	budget.StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	budget.EndDate = time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	start, end, err := nextPeriodWindow(budget)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), end)
}
