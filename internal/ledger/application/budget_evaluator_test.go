package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/infrastructure"
	"github.com/stretchr/testify/assert"
)

func juneBudget(userID, category string, amount, rollover float64) domain.Budget {
	return domain.Budget{
		ID:             "b-" + category,
		UserID:         userID,
		Name:           category + " budget",
		Amount:         amount,
		Category:       category,
		Period:         "Monthly",
		StartDate:      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
		RolloverAmount: rollover,
	}
}

func TestEvaluate_OverspentBudget(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Housing", Amount: 1200, Date: time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)},
	}}
	evaluator := NewEvaluator(store)

	ev, err := evaluator.Evaluate(context.Background(), "user-1", juneBudget("user-1", "Housing", 1000, 0))

	assert.NoError(t, err)
	assert.Equal(t, 1200.0, ev.Spent)
	assert.Equal(t, -200.0, ev.Remaining)
	assert.Equal(t, 100, ev.PercentUsed)
}

func TestEvaluate_PercentUsedRounds(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 333, Date: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
	}}
	evaluator := NewEvaluator(store)

	ev, err := evaluator.Evaluate(context.Background(), "user-1", juneBudget("user-1", "Food", 1000, 0))

	assert.NoError(t, err)
	assert.Equal(t, 33, ev.PercentUsed)
}

func TestEvaluate_ZeroLimitBudget(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 50, Date: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
	}}
	evaluator := NewEvaluator(store)

	ev, err := evaluator.Evaluate(context.Background(), "user-1", juneBudget("user-1", "Food", 0, 0))

	assert.NoError(t, err)
	assert.Equal(t, 50.0, ev.Spent)
	assert.Equal(t, -50.0, ev.Remaining)
	assert.Equal(t, 0, ev.PercentUsed)
}

func TestEvaluate_RolloverExtendsLimit(t *testing.T) {
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 600, Date: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
	}}
	evaluator := NewEvaluator(store)

	ev, err := evaluator.Evaluate(context.Background(), "user-1", juneBudget("user-1", "Food", 1000, 200))

	assert.NoError(t, err)
	assert.Equal(t, 600.0, ev.Spent)
	assert.Equal(t, 600.0, ev.Remaining)
	assert.Equal(t, 50, ev.PercentUsed)
}

func TestEvaluate_IgnoresOtherUsersAndWindows(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 100, Date: june},
		{UserID: "user-2", Category: "Food", Amount: 100, Date: june},
		{UserID: "user-1", Category: "Food", Amount: 100, Date: june.AddDate(0, -1, 0)},
		{UserID: "user-1", Category: "Housing", Amount: 100, Date: june},
	}}
	evaluator := NewEvaluator(store)

	ev, err := evaluator.Evaluate(context.Background(), "user-1", juneBudget("user-1", "Food", 1000, 0))

	assert.NoError(t, err)
	assert.Equal(t, 100.0, ev.Spent)
}

func TestEvaluate_OwnerMismatchFailsClosed(t *testing.T) {
	store := &infrastructure.MockLedgerStore{}
	evaluator := NewEvaluator(store)

	_, err := evaluator.Evaluate(context.Background(), "user-2", juneBudget("user-1", "Food", 1000, 0))

	assert.ErrorIs(t, err, ledgerErrors.ErrForbidden)
	assert.Equal(t, 0, store.SumCalls)
}

func TestEvaluateBatch_KeepsInputOrder(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 250, Date: june},
		{UserID: "user-1", Category: "Housing", Amount: 900, Date: june},
	}}
	evaluator := NewEvaluator(store)

	budgets := []domain.Budget{
		juneBudget("user-1", "Housing", 1000, 0),
		juneBudget("user-1", "Food", 500, 0),
		juneBudget("user-1", "Transportation", 200, 0),
	}
	progress, err := evaluator.EvaluateBatch(context.Background(), "user-1", budgets, june)

	assert.NoError(t, err)
	assert.Equal(t, 3, len(progress))
	assert.Equal(t, "Housing", progress[0].Category)
	assert.Equal(t, 900.0, progress[0].Spent)
	assert.Equal(t, 90, progress[0].PercentUsed)
	assert.Equal(t, "Food", progress[1].Category)
	assert.Equal(t, 250.0, progress[1].Spent)
	assert.Equal(t, "Transportation", progress[2].Category)
	assert.Equal(t, 0.0, progress[2].Spent)
	assert.Equal(t, 200.0, progress[2].Remaining)
}

func TestEvaluateBatch_SkipsInactiveAndExpired(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	store := &infrastructure.MockLedgerStore{}
	evaluator := NewEvaluator(store)

	inactive := juneBudget("user-1", "Food", 500, 0)
	inactive.IsActive = false
	expired := juneBudget("user-1", "Housing", 1000, 0)
	expired.StartDate = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	expired.EndDate = time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)

	progress, err := evaluator.EvaluateBatch(context.Background(), "user-1", []domain.Budget{inactive, expired}, june)

	assert.NoError(t, err)
	assert.Equal(t, 0, len(progress))
	assert.Equal(t, 0, store.SumCalls)
}

func TestEvaluateBatch_ForeignBudgetFailsClosed(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	evaluator := NewEvaluator(&infrastructure.MockLedgerStore{})

	budgets := []domain.Budget{
		juneBudget("user-1", "Food", 500, 0),
		juneBudget("user-2", "Housing", 1000, 0),
	}
	_, err := evaluator.EvaluateBatch(context.Background(), "user-1", budgets, june)

	assert.ErrorIs(t, err, ledgerErrors.ErrForbidden)
}

func TestEvaluateBatch_StoreFailureFailsBatch(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	storeErr := ledgerErrors.NewStoreUnavailable(errors.New("connection reset"))
	evaluator := NewEvaluator(&infrastructure.MockLedgerStore{Err: storeErr})

	_, err := evaluator.EvaluateBatch(context.Background(), "user-1", []domain.Budget{juneBudget("user-1", "Food", 500, 0)}, june)

	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsStoreUnavailable(err))
}
