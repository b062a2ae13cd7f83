package application

import (
	"context"
	"math"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
	"golang.org/x/sync/errgroup"
)

// Evaluation carries the derived budget metrics. Spent and Remaining
// are in the budget's currency unit; Remaining may be negative.
type Evaluation struct {
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed int     `json:"percentUsed"`
}

// BudgetProgress is a budget joined with its evaluation.
type BudgetProgress struct {
	domain.Budget
	Evaluation
}

// Evaluator is the single source of truth for spent/remaining/
// percentUsed. Every call site needing derived budget fields goes
// through it instead of recomputing.
type Evaluator struct {
	store domain.LedgerStore
}

func NewEvaluator(store domain.LedgerStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate computes the derived metrics for one budget. The stored
// owner must match callerID; on mismatch evaluation fails closed with
// ErrForbidden instead of summing anything.
func (e *Evaluator) Evaluate(ctx context.Context, callerID string, budget domain.Budget) (Evaluation, error) {
	if budget.UserID != callerID {
		return Evaluation{}, ledgerErrors.ErrForbidden
	}

	spent, err := e.store.Sum(ctx, budget.UserID, domain.KindExpense, domain.SumFilter{
		Label:     budget.Category,
		StartDate: budget.StartDate,
		EndDate:   budget.EndDate,
	})
	if err != nil {
		return Evaluation{}, err
	}

	return evaluation(budget, spent), nil
}

func evaluation(budget domain.Budget, spent float64) Evaluation {
	limit := budget.Amount + budget.RolloverAmount
	ev := Evaluation{
		Spent:     spent,
		Remaining: limit - spent,
	}
	if limit > 0 {
		ev.PercentUsed = int(math.Min(100, math.Round(spent/limit*100)))
	}
	return ev
}

// EvaluateBatch evaluates the caller's current budgets (isActive and
// startDate <= now <= endDate) in one pass. Budgets are grouped by
// category and each category's sums run on their own goroutine since
// the queries are independent and read-only; results are reassembled
// in input order regardless of completion order. Any store failure
// fails the whole batch.
func (e *Evaluator) EvaluateBatch(ctx context.Context, callerID string, budgets []domain.Budget, now time.Time) ([]BudgetProgress, error) {
	var current []domain.Budget
	for _, b := range budgets {
		if b.UserID != callerID {
			return nil, ledgerErrors.ErrForbidden
		}
		if b.IsActive && b.Current(now) {
			current = append(current, b)
		}
	}

	byCategory := make(map[string][]int)
	for i, b := range current {
		byCategory[b.Category] = append(byCategory[b.Category], i)
	}

	results := make([]Evaluation, len(current))
	g, ctx := errgroup.WithContext(ctx)
	for _, indexes := range byCategory {
		indexes := indexes
		g.Go(func() error {
			for _, i := range indexes {
				budget := current[i]
				spent, err := e.store.Sum(ctx, budget.UserID, domain.KindExpense, domain.SumFilter{
					Label:     budget.Category,
					StartDate: budget.StartDate,
					EndDate:   budget.EndDate,
				})
				if err != nil {
					return err
				}
				results[i] = evaluation(budget, spent)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress := make([]BudgetProgress, len(current))
	for i, b := range current {
		progress[i] = BudgetProgress{Budget: b, Evaluation: results[i]}
	}
	return progress, nil
}
