package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type BudgetService struct {
	repo      domain.BudgetRepository
	evaluator *Evaluator
	cache     ReportCache
}

func NewBudgetService(repo domain.BudgetRepository, evaluator *Evaluator, cache ReportCache) *BudgetService {
	return &BudgetService{repo: repo, evaluator: evaluator, cache: cache}
}

func (s *BudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	budget.ID = uuid.NewString()
	budget.RoundToTwoDecimalPlaces()
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now
	if err := budget.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, *budget); err != nil {
		return err
	}
	s.invalidate(budget.UserID)
	return nil
}

// GetBudget returns the budget together with its evaluation, so every
// read carries consistent spent/remaining/percentUsed.
func (s *BudgetService) GetBudget(ctx context.Context, callerID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}
	ev, err := s.evaluator.Evaluate(ctx, callerID, *budget)
	if err != nil {
		return nil, err
	}
	return &BudgetProgress{Budget: *budget, Evaluation: ev}, nil
}

// GetUserBudgets lists budgets with their evaluations. Without an
// overlap window or the all flag, only budgets covering now are
// returned (the default "current budgets" view).
func (s *BudgetService) GetUserBudgets(ctx context.Context, userID string, filter domain.BudgetFilter, limit, page int) ([]BudgetProgress, int, error) {
	if filter.Category != "" && !domain.IsValidExpenseCategory(filter.Category) {
		return nil, 0, ledgerErrors.ErrInvalidCategory
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
		if err := ValidateRange(filter.StartDate, filter.EndDate); err != nil {
			return nil, 0, err
		}
	}
	now := time.Now().UTC()
	budgets, err := s.repo.FindByUser(ctx, userID, filter, now, limit, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUser(ctx, userID, filter, now)
	if err != nil {
		return nil, 0, err
	}

	progress := make([]BudgetProgress, 0, len(budgets))
	for _, budget := range budgets {
		ev, err := s.evaluator.Evaluate(ctx, userID, budget)
		if err != nil {
			return nil, 0, err
		}
		progress = append(progress, BudgetProgress{Budget: budget, Evaluation: ev})
	}
	return progress, total, nil
}

// GetBudgetProgress evaluates the caller's active budgets covering
// now, in one batch.
func (s *BudgetService) GetBudgetProgress(ctx context.Context, userID string) ([]BudgetProgress, error) {
	now := time.Now().UTC()
	budgets, err := s.repo.FindCurrentActive(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	progress, err := s.evaluator.EvaluateBatch(ctx, userID, budgets, now)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []BudgetProgress{}
	}
	return progress, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, callerID string, budget domain.Budget) (*BudgetProgress, error) {
	existing, err := s.repo.FindByID(ctx, budget.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}

	budget.UserID = existing.UserID
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = time.Now().UTC()
	budget.RoundToTwoDecimalPlaces()
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}
	s.invalidate(callerID)

	ev, err := s.evaluator.Evaluate(ctx, callerID, budget)
	if err != nil {
		return nil, err
	}
	return &BudgetProgress{Budget: budget, Evaluation: ev}, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, callerID, budgetID string) error {
	existing, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		return ledgerErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, budgetID); err != nil {
		return err
	}
	s.invalidate(callerID)
	return nil
}

func (s *BudgetService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
