package infrastructure

import (
	"context"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

// MockExpenseRepository keeps expenses in a slice for service tests.
type MockExpenseRepository struct {
	Expenses []domain.Expense
	Err      error
}

func (m *MockExpenseRepository) Save(_ context.Context, expense domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	m.Expenses = append(m.Expenses, expense)
	return nil
}

func (m *MockExpenseRepository) FindByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == expenseID {
			expense := m.Expenses[i]
			return &expense, nil
		}
	}
	return nil, ledgerErrors.ErrNotFound
}

func (m *MockExpenseRepository) matches(expense domain.Expense, userID string, filter domain.ExpenseFilter) bool {
	if expense.UserID != userID {
		return false
	}
	if filter.Category != "" && expense.Category != filter.Category {
		return false
	}
	return inWindow(expense.Date, filter.StartDate, filter.EndDate)
}

func (m *MockExpenseRepository) FindByUser(_ context.Context, userID string, filter domain.ExpenseFilter, limit, page int) ([]domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var expenses []domain.Expense
	for _, expense := range m.Expenses {
		if m.matches(expense, userID, filter) {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (m *MockExpenseRepository) CountByUser(_ context.Context, userID string, filter domain.ExpenseFilter) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, expense := range m.Expenses {
		if m.matches(expense, userID, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockExpenseRepository) Update(_ context.Context, expense domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == expense.ID {
			m.Expenses[i] = expense
			return nil
		}
	}
	return ledgerErrors.ErrNotFound
}

func (m *MockExpenseRepository) Delete(_ context.Context, expenseID string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == expenseID {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return nil
		}
	}
	return ledgerErrors.ErrNotFound
}
