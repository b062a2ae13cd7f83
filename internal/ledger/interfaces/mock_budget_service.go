package interfaces

import (
	"context"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/application"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type MockBudgetService struct {
	progress   []application.BudgetProgress
	single     *application.BudgetProgress
	total      int
	err        error
	lastFilter domain.BudgetFilter
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	return m.err
}

func (m *MockBudgetService) GetBudget(ctx context.Context, callerID, budgetID string) (*application.BudgetProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.single, nil
}

func (m *MockBudgetService) GetUserBudgets(ctx context.Context, userID string, filter domain.BudgetFilter, limit, page int) ([]application.BudgetProgress, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.progress, m.total, nil
}

func (m *MockBudgetService) GetBudgetProgress(ctx context.Context, userID string) ([]application.BudgetProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.progress, nil
}

func (m *MockBudgetService) UpdateBudget(ctx context.Context, callerID string, budget domain.Budget) (*application.BudgetProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.single, nil
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, callerID, budgetID string) error {
	return m.err
}
