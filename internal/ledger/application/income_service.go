package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type IncomeService struct {
	repo  domain.IncomeRepository
	cache ReportCache
}

func NewIncomeService(repo domain.IncomeRepository, cache ReportCache) *IncomeService {
	return &IncomeService{repo: repo, cache: cache}
}

func (s *IncomeService) CreateIncome(ctx context.Context, income *domain.Income) error {
	income.ID = uuid.NewString()
	income.RoundToTwoDecimalPlaces()
	now := time.Now().UTC()
	income.CreatedAt = now
	income.UpdatedAt = now
	if err := income.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, *income); err != nil {
		return err
	}
	s.invalidate(income.UserID)
	return nil
}

func (s *IncomeService) GetIncome(ctx context.Context, callerID, incomeID string) (*domain.Income, error) {
	income, err := s.repo.FindByID(ctx, incomeID)
	if err != nil {
		return nil, err
	}
	if income.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}
	return income, nil
}

func (s *IncomeService) GetUserIncomes(ctx context.Context, userID string, filter domain.IncomeFilter, limit, page int) ([]domain.Income, int, error) {
	if filter.Source != "" && !domain.IsValidIncomeSource(filter.Source) {
		return nil, 0, ledgerErrors.ErrInvalidSource
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
		if err := ValidateRange(filter.StartDate, filter.EndDate); err != nil {
			return nil, 0, err
		}
	}
	incomes, err := s.repo.FindByUser(ctx, userID, filter, limit, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	if incomes == nil {
		incomes = []domain.Income{}
	}
	return incomes, total, nil
}

func (s *IncomeService) UpdateIncome(ctx context.Context, callerID string, income domain.Income) (*domain.Income, error) {
	existing, err := s.repo.FindByID(ctx, income.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, ledgerErrors.ErrForbidden
	}

	income.UserID = existing.UserID
	income.CreatedAt = existing.CreatedAt
	income.UpdatedAt = time.Now().UTC()
	income.RoundToTwoDecimalPlaces()
	if err := income.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, income); err != nil {
		return nil, err
	}
	s.invalidate(callerID)
	return &income, nil
}

func (s *IncomeService) DeleteIncome(ctx context.Context, callerID, incomeID string) error {
	existing, err := s.repo.FindByID(ctx, incomeID)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		return ledgerErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, incomeID); err != nil {
		return err
	}
	s.invalidate(callerID)
	return nil
}

func (s *IncomeService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
