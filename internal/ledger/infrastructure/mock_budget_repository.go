package infrastructure

import (
	"context"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

// MockBudgetRepository keeps budgets in a slice for service tests.
type MockBudgetRepository struct {
	Budgets []domain.Budget
	Err     error
}

func (m *MockBudgetRepository) Save(_ context.Context, budget domain.Budget) error {
	if m.Err != nil {
		return m.Err
	}
	m.Budgets = append(m.Budgets, budget)
	return nil
}

func (m *MockBudgetRepository) FindByID(_ context.Context, budgetID string) (*domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Budgets {
		if m.Budgets[i].ID == budgetID {
			budget := m.Budgets[i]
			return &budget, nil
		}
	}
	return nil, ledgerErrors.ErrNotFound
}

func (m *MockBudgetRepository) FindByUser(_ context.Context, userID string, filter domain.BudgetFilter, now time.Time, limit, page int) ([]domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var budgets []domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID != userID {
			continue
		}
		if filter.Category != "" && budget.Category != filter.Category {
			continue
		}
		if filter.IsActive != nil && budget.IsActive != *filter.IsActive {
			continue
		}
		if filter.StartDate.IsZero() && filter.EndDate.IsZero() && !filter.All && !budget.Current(now) {
			continue
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func (m *MockBudgetRepository) CountByUser(ctx context.Context, userID string, filter domain.BudgetFilter, now time.Time) (int, error) {
	budgets, err := m.FindByUser(ctx, userID, filter, now, 0, 1)
	if err != nil {
		return 0, err
	}
	return len(budgets), nil
}

func (m *MockBudgetRepository) FindCurrentActive(_ context.Context, userID string, now time.Time) ([]domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var budgets []domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.IsActive && budget.Current(now) {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (m *MockBudgetRepository) FindEndedRollover(_ context.Context, now time.Time) ([]domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var budgets []domain.Budget
	for _, budget := range m.Budgets {
		if budget.IsActive && budget.Rollover && budget.EndDate.Before(now) {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (m *MockBudgetRepository) Update(_ context.Context, budget domain.Budget) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Budgets {
		if m.Budgets[i].ID == budget.ID {
			m.Budgets[i] = budget
			return nil
		}
	}
	return ledgerErrors.ErrNotFound
}

func (m *MockBudgetRepository) SetActive(_ context.Context, budgetID string, active bool) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Budgets {
		if m.Budgets[i].ID == budgetID {
			m.Budgets[i].IsActive = active
			return nil
		}
	}
	return ledgerErrors.ErrNotFound
}

func (m *MockBudgetRepository) Delete(_ context.Context, budgetID string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Budgets {
		if m.Budgets[i].ID == budgetID {
			m.Budgets = append(m.Budgets[:i], m.Budgets[i+1:]...)
			return nil
		}
	}
	return ledgerErrors.ErrNotFound
}
