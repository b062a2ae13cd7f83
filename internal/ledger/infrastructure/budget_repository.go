package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, name, amount, category, period, start_date, end_date, is_active, rollover, rollover_amount, notes, created_at, updated_at`

func (r *BudgetRepository) Save(ctx context.Context, budget domain.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		budget.ID, budget.UserID, budget.Name, budget.Amount, budget.Category, budget.Period,
		budget.StartDate, budget.EndDate, budget.IsActive, budget.Rollover, budget.RolloverAmount,
		budget.Notes, budget.CreatedAt, budget.UpdatedAt,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return nil
}

func (r *BudgetRepository) FindByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, budgetID)

	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.ErrNotFound
		}
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return budget, nil
}

func (r *BudgetRepository) FindByUser(ctx context.Context, userID string, filter domain.BudgetFilter, now time.Time, limit, page int) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendBudgetFilter(query, args, filter, now)
	query += " ORDER BY start_date DESC, id"
	args = append(args, limit, (page-1)*limit)
	query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func (r *BudgetRepository) CountByUser(ctx context.Context, userID string, filter domain.BudgetFilter, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM budgets WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendBudgetFilter(query, args, filter, now)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, ledgerErrors.NewStoreUnavailable(err)
	}
	return total, nil
}

func (r *BudgetRepository) FindCurrentActive(ctx context.Context, userID string, now time.Time) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets
        WHERE user_id = $1 AND is_active = TRUE AND start_date <= $2 AND end_date >= $2
        ORDER BY start_date DESC, id`,
		userID, now)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func (r *BudgetRepository) FindEndedRollover(ctx context.Context, now time.Time) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets
        WHERE is_active = TRUE AND rollover = TRUE AND end_date < $1
        ORDER BY end_date, id`,
		now)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func (r *BudgetRepository) Update(ctx context.Context, budget domain.Budget) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets
        SET name = $1, amount = $2, category = $3, period = $4, start_date = $5, end_date = $6,
            is_active = $7, rollover = $8, rollover_amount = $9, notes = $10, updated_at = $11
        WHERE id = $12`,
		budget.Name, budget.Amount, budget.Category, budget.Period, budget.StartDate, budget.EndDate,
		budget.IsActive, budget.Rollover, budget.RolloverAmount, budget.Notes, budget.UpdatedAt, budget.ID,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func (r *BudgetRepository) SetActive(ctx context.Context, budgetID string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, budgetID)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func (r *BudgetRepository) Delete(ctx context.Context, budgetID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func appendBudgetFilter(query string, args []interface{}, filter domain.BudgetFilter, now time.Time) (string, []interface{}) {
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += " AND category = $" + strconv.Itoa(len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += " AND is_active = $" + strconv.Itoa(len(args))
	}
	switch {
	case !filter.StartDate.IsZero() && !filter.EndDate.IsZero():
		// Overlap: the budget window intersects the filter window.
		args = append(args, filter.EndDate)
		query += " AND start_date <= $" + strconv.Itoa(len(args))
		args = append(args, filter.StartDate)
		query += " AND end_date >= $" + strconv.Itoa(len(args))
	case !filter.StartDate.IsZero():
		args = append(args, filter.StartDate)
		query += " AND end_date >= $" + strconv.Itoa(len(args))
	case !filter.EndDate.IsZero():
		args = append(args, filter.EndDate)
		query += " AND start_date <= $" + strconv.Itoa(len(args))
	case !filter.All:
		// Default view: budgets covering the current moment.
		args = append(args, now)
		query += " AND start_date <= $" + strconv.Itoa(len(args))
		args = append(args, now)
		query += " AND end_date >= $" + strconv.Itoa(len(args))
	}
	return query, args
}

func collectBudgets(rows *sql.Rows) ([]domain.Budget, error) {
	var budgets []domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return budgets, nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var budget domain.Budget
	if err := row.Scan(&budget.ID, &budget.UserID, &budget.Name, &budget.Amount, &budget.Category,
		&budget.Period, &budget.StartDate, &budget.EndDate, &budget.IsActive, &budget.Rollover,
		&budget.RolloverAmount, &budget.Notes, &budget.CreatedAt, &budget.UpdatedAt); err != nil {
		return nil, err
	}
	return &budget, nil
}
