package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

// RolloverProcessor carries unused budget into the next period. For
// every active rollover budget whose window has ended it creates a
// successor budget with the window advanced by the period length and
// RolloverAmount set to the unspent remainder, then deactivates the
// old one. Matching inside the engine still uses stored dates only;
// the period label is consulted here and nowhere else.
type RolloverProcessor struct {
	repo      domain.BudgetRepository
	evaluator *Evaluator
}

func NewRolloverProcessor(repo domain.BudgetRepository, evaluator *Evaluator) *RolloverProcessor {
	return &RolloverProcessor{repo: repo, evaluator: evaluator}
}

// ProcessEndedBudgets rolls every ended rollover budget into its next
// period and returns how many successors were created.
func (p *RolloverProcessor) ProcessEndedBudgets(ctx context.Context, now time.Time) (int, error) {
	ended, err := p.repo.FindEndedRollover(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find ended rollover budgets: %w", err)
	}

	processed := 0
	for _, budget := range ended {
		ev, err := p.evaluator.Evaluate(ctx, budget.UserID, budget)
		if err != nil {
			log.Printf("Skipping rollover for budget %s: %v", budget.ID, err)
			continue
		}

		startDate, endDate, err := nextPeriodWindow(budget)
		if err != nil {
			log.Printf("Skipping rollover for budget %s: %v", budget.ID, err)
			continue
		}

		successor := budget
		successor.ID = uuid.NewString()
		successor.StartDate = startDate
		successor.EndDate = endDate
		successor.RolloverAmount = 0
		if ev.Remaining > 0 {
			successor.RolloverAmount = ev.Remaining
		}
		successor.IsActive = true
		successor.CreatedAt = now
		successor.UpdatedAt = now

		if err := p.repo.Save(ctx, successor); err != nil {
			return processed, fmt.Errorf("save successor budget: %w", err)
		}
		if err := p.repo.SetActive(ctx, budget.ID, false); err != nil {
			return processed, fmt.Errorf("deactivate ended budget: %w", err)
		}
		processed++
	}
	return processed, nil
}

func nextPeriodWindow(budget domain.Budget) (time.Time, time.Time, error) {
	start := budget.EndDate.AddDate(0, 0, 1)
	switch budget.Period {
	case "Weekly":
		return start, start.AddDate(0, 0, 6), nil
	case "Monthly":
		return start, start.AddDate(0, 1, 0).AddDate(0, 0, -1), nil
	case "Quarterly":
		return start, start.AddDate(0, 3, 0).AddDate(0, 0, -1), nil
	case "Yearly":
		return start, start.AddDate(1, 0, 0).AddDate(0, 0, -1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", budget.Period)
	}
}
