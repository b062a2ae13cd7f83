package domain

import (
	"context"
	"math"
	"time"

	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

var budgetPeriods = []string{"Weekly", "Monthly", "Quarterly", "Yearly"}

// Budget caps spending for one expense category inside the stored
// [StartDate, EndDate] window. The Period label describes the user's
// intent but never derives the matching window.
type Budget struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	Period         string    `json:"period"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsActive       bool      `json:"isActive"`
	Rollover       bool      `json:"rollover"`
	RolloverAmount float64   `json:"rolloverAmount"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (b *Budget) RoundToTwoDecimalPlaces() {
	b.Amount = math.Round(b.Amount*100) / 100
	b.RolloverAmount = math.Round(b.RolloverAmount*100) / 100
}

// Validate enforces the write-time invariants, including
// StartDate <= EndDate so evaluation never sees an inverted window.
func (b *Budget) Validate() error {
	if b.Name == "" {
		return ledgerErrors.NewValidationError("Budget name is required")
	}
	if b.Amount < 0 {
		return ledgerErrors.NewValidationError("Budget amount cannot be negative")
	}
	if b.RolloverAmount < 0 {
		return ledgerErrors.NewValidationError("Rollover amount cannot be negative")
	}
	if !IsValidExpenseCategory(b.Category) {
		return ledgerErrors.ErrInvalidCategory
	}
	if !contains(budgetPeriods, b.Period) {
		return ledgerErrors.NewValidationError("Period must be one of Weekly, Monthly, Quarterly, Yearly")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ledgerErrors.NewValidationError("Start date and end date are required")
	}
	if b.StartDate.After(b.EndDate) {
		return ledgerErrors.ErrInvalidRange
	}
	return nil
}

// Current reports whether now falls inside the budget window.
func (b *Budget) Current(now time.Time) bool {
	return !b.StartDate.After(now) && !b.EndDate.Before(now)
}

type BudgetFilter struct {
	Category string
	IsActive *bool
	// Overlap window: budgets whose [StartDate, EndDate] intersects it.
	StartDate time.Time
	EndDate   time.Time
	// All disables the default current-window view when no overlap
	// window is given.
	All bool
}

type BudgetRepository interface {
	Save(ctx context.Context, budget Budget) error
	FindByID(ctx context.Context, budgetID string) (*Budget, error)
	FindByUser(ctx context.Context, userID string, filter BudgetFilter, now time.Time, limit, page int) ([]Budget, error)
	CountByUser(ctx context.Context, userID string, filter BudgetFilter, now time.Time) (int, error)
	FindCurrentActive(ctx context.Context, userID string, now time.Time) ([]Budget, error)
	FindEndedRollover(ctx context.Context, now time.Time) ([]Budget, error)
	Update(ctx context.Context, budget Budget) error
	SetActive(ctx context.Context, budgetID string, active bool) error
	Delete(ctx context.Context, budgetID string) error
}
