package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type ExpenseService struct {
	repo  domain.ExpenseRepository
	cache ReportCache
}

func NewExpenseService(repo domain.ExpenseRepository, cache ReportCache) *ExpenseService {
	return &ExpenseService{repo: repo, cache: cache}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.NewString()
	expense.RoundToTwoDecimalPlaces()
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	if err := expense.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, *expense); err != nil {
		return err
	}
	s.invalidate(expense.UserID)
	return nil
}

// GetExpense fetches one record, distinguishing "does not exist" from
// "exists but belongs to someone else".
func (s *ExpenseService) GetExpense(ctx context.Context, callerID, expenseID string) (*domain.Expense, error) {
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}
	return expense, nil
}

func (s *ExpenseService) GetUserExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter, limit, page int) ([]domain.Expense, int, error) {
	if filter.Category != "" && !domain.IsValidExpenseCategory(filter.Category) {
		return nil, 0, ledgerErrors.ErrInvalidCategory
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
		if err := ValidateRange(filter.StartDate, filter.EndDate); err != nil {
			return nil, 0, err
		}
	}
	expenses, err := s.repo.FindByUser(ctx, userID, filter, limit, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, total, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, callerID string, expense domain.Expense) (*domain.Expense, error) {
	existing, err := s.repo.FindByID(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}

	expense.UserID = existing.UserID
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = time.Now().UTC()
	expense.RoundToTwoDecimalPlaces()
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidate(callerID)
	return &expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, callerID, expenseID string) error {
	existing, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		return ledgerErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return err
	}
	s.invalidate(callerID)
	return nil
}

func (s *ExpenseService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}

// IsNotFound reports whether err is the repository's not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ledgerErrors.ErrNotFound)
}
