package application

import (
	"context"
	"testing"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/infrastructure"
	"github.com/stretchr/testify/assert"
)

func newBudgetService(store *infrastructure.MockLedgerStore, repo *infrastructure.MockBudgetRepository, cache ReportCache) *BudgetService {
	return NewBudgetService(repo, NewEvaluator(store), cache)
}

func TestCreateBudget_RejectsInvertedWindow(t *testing.T) {
	service := newBudgetService(&infrastructure.MockLedgerStore{}, &infrastructure.MockBudgetRepository{}, nil)

	budget := domain.Budget{
		UserID:    "user-1",
		Name:      "Groceries",
		Amount:    500,
		Category:  "Food",
		Period:    "Monthly",
		StartDate: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	err := service.CreateBudget(context.Background(), &budget)

	assert.ErrorIs(t, err, ledgerErrors.ErrInvalidRange)
}

func TestCreateBudget_AssignsIDAndInvalidatesCache(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{}
	cache := newFakeCache()
	service := newBudgetService(&infrastructure.MockLedgerStore{}, repo, cache)

	budget := domain.Budget{
		UserID:    "user-1",
		Name:      "Groceries",
		Amount:    500,
		Category:  "Food",
		Period:    "Monthly",
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
	err := service.CreateBudget(context.Background(), &budget)

	assert.NoError(t, err)
	assert.NotEmpty(t, budget.ID)
	assert.Equal(t, 1, len(repo.Budgets))
	assert.Equal(t, []string{"user-1"}, cache.invalidated)
}

func TestGetBudget_ForeignBudgetIsForbidden(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{{
		ID: "b-1", UserID: "user-1", Category: "Food", Amount: 500,
	}}}
	service := newBudgetService(&infrastructure.MockLedgerStore{}, repo, nil)

	_, err := service.GetBudget(context.Background(), "user-2", "b-1")

	assert.ErrorIs(t, err, ledgerErrors.ErrForbidden)
}

func TestGetBudget_ReturnsEvaluation(t *testing.T) {
	june := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	store := &infrastructure.MockLedgerStore{Expenses: []domain.Expense{
		{UserID: "user-1", Category: "Food", Amount: 150, Date: june},
	}}
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{{
		ID:        "b-1",
		UserID:    "user-1",
		Category:  "Food",
		Amount:    500,
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}}}
	service := newBudgetService(store, repo, nil)

	progress, err := service.GetBudget(context.Background(), "user-1", "b-1")

	assert.NoError(t, err)
	assert.Equal(t, 150.0, progress.Spent)
	assert.Equal(t, 350.0, progress.Remaining)
	assert.Equal(t, 30, progress.PercentUsed)
}

func TestGetBudgetProgress_NoActiveBudgets(t *testing.T) {
	service := newBudgetService(&infrastructure.MockLedgerStore{}, &infrastructure.MockBudgetRepository{}, nil)

	progress, err := service.GetBudgetProgress(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.NotNil(t, progress)
	assert.Equal(t, 0, len(progress))
}

func TestDeleteBudget_NotFound(t *testing.T) {
	service := newBudgetService(&infrastructure.MockLedgerStore{}, &infrastructure.MockBudgetRepository{}, nil)

	err := service.DeleteBudget(context.Background(), "user-1", "missing")

	assert.ErrorIs(t, err, ledgerErrors.ErrNotFound)
}

func TestGetUserBudgets_InvalidCategory(t *testing.T) {
	service := newBudgetService(&infrastructure.MockLedgerStore{}, &infrastructure.MockBudgetRepository{}, nil)

	_, _, err := service.GetUserBudgets(context.Background(), "user-1", domain.BudgetFilter{Category: "Snacks"}, 20, 1)

	assert.ErrorIs(t, err, ledgerErrors.ErrInvalidCategory)
}
