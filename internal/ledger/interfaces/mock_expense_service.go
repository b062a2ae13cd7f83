package interfaces

import (
	"context"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type MockExpenseService struct {
	expenses   []domain.Expense
	single     *domain.Expense
	total      int
	err        error
	lastFilter domain.ExpenseFilter
	lastLimit  int
	lastPage   int
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	if m.err != nil {
		return m.err
	}
	expense.ID = "generated-id"
	return nil
}

func (m *MockExpenseService) GetExpense(ctx context.Context, callerID, expenseID string) (*domain.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.single, nil
}

func (m *MockExpenseService) GetUserExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter, limit, page int) ([]domain.Expense, int, error) {
	m.lastFilter, m.lastLimit, m.lastPage = filter, limit, page
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.expenses, m.total, nil
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, callerID string, expense domain.Expense) (*domain.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.single, nil
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, callerID, expenseID string) error {
	return m.err
}
