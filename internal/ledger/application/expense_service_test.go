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

func validExpense(userID string) domain.Expense {
	return domain.Expense{
		UserID:      userID,
		Amount:      25.512,
		Description: "Lunch",
		Category:    "Food",
		Date:        time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpense_RoundsAndAssignsID(t *testing.T) {
	repo := &infrastructure.MockExpenseRepository{}
	cache := newFakeCache()
	service := NewExpenseService(repo, cache)

	expense := validExpense("user-1")
	err := service.CreateExpense(context.Background(), &expense)

	assert.NoError(t, err)
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, 25.51, expense.Amount)
	assert.Equal(t, 1, len(repo.Expenses))
	assert.Equal(t, []string{"user-1"}, cache.invalidated)
}

func TestCreateExpense_InvalidCategory(t *testing.T) {
	service := NewExpenseService(&infrastructure.MockExpenseRepository{}, nil)

	expense := validExpense("user-1")
	expense.Category = "Lunches"
	err := service.CreateExpense(context.Background(), &expense)

	assert.ErrorIs(t, err, ledgerErrors.ErrInvalidCategory)
}

func TestCreateExpense_NonPositiveAmount(t *testing.T) {
	service := NewExpenseService(&infrastructure.MockExpenseRepository{}, nil)

	expense := validExpense("user-1")
	expense.Amount = 0
	err := service.CreateExpense(context.Background(), &expense)

	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestGetExpense_ForeignRecordIsForbidden(t *testing.T) {
	existing := validExpense("user-1")
	existing.ID = "e-1"
	repo := &infrastructure.MockExpenseRepository{Expenses: []domain.Expense{existing}}
	service := NewExpenseService(repo, nil)

	_, err := service.GetExpense(context.Background(), "user-2", "e-1")

	assert.ErrorIs(t, err, ledgerErrors.ErrForbidden)
}

func TestGetUserExpenses_EmptyResultIsNotAnError(t *testing.T) {
	service := NewExpenseService(&infrastructure.MockExpenseRepository{}, nil)

	expenses, total, err := service.GetUserExpenses(context.Background(), "user-1", domain.ExpenseFilter{}, 20, 1)

	assert.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Equal(t, 0, len(expenses))
	assert.Equal(t, 0, total)
}

func TestGetUserExpenses_InvertedWindowRejected(t *testing.T) {
	service := NewExpenseService(&infrastructure.MockExpenseRepository{}, nil)

	filter := domain.ExpenseFilter{
		StartDate: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	_, _, err := service.GetUserExpenses(context.Background(), "user-1", filter, 20, 1)

	assert.ErrorIs(t, err, ledgerErrors.ErrInvalidRange)
}

func TestUpdateExpense_PreservesOwnerAndCreatedAt(t *testing.T) {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	existing := validExpense("user-1")
	existing.ID = "e-1"
	existing.CreatedAt = created
	repo := &infrastructure.MockExpenseRepository{Expenses: []domain.Expense{existing}}
	service := NewExpenseService(repo, nil)

	update := validExpense("someone-else")
	update.ID = "e-1"
	update.Amount = 40
	updated, err := service.UpdateExpense(context.Background(), "user-1", update)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", updated.UserID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, 40.0, updated.Amount)
}

func TestDeleteExpense_Forbidden(t *testing.T) {
	existing := validExpense("user-1")
	existing.ID = "e-1"
	repo := &infrastructure.MockExpenseRepository{Expenses: []domain.Expense{existing}}
	service := NewExpenseService(repo, nil)

	err := service.DeleteExpense(context.Background(), "user-2", "e-1")

	assert.ErrorIs(t, err, ledgerErrors.ErrForbidden)
	assert.Equal(t, 1, len(repo.Expenses))
}
