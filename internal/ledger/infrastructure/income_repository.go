package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

const incomeColumns = `id, user_id, amount, description, source, date, taxable, notes, is_recurring, recurring_frequency, created_at, updated_at`

func (r *IncomeRepository) Save(ctx context.Context, income domain.Income) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (`+incomeColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		income.ID, income.UserID, income.Amount, income.Description, income.Source,
		income.Date, income.Taxable, income.Notes, income.IsRecurring,
		nullableString(income.RecurringFrequency), income.CreatedAt, income.UpdatedAt,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return nil
}

func (r *IncomeRepository) FindByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE id = $1`, incomeID)

	income, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.ErrNotFound
		}
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return income, nil
}

func (r *IncomeRepository) FindByUser(ctx context.Context, userID string, filter domain.IncomeFilter, limit, page int) ([]domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendIncomeFilter(query, args, filter)
	query += " ORDER BY date DESC, id"
	args = append(args, limit, (page-1)*limit)
	query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var incomes []domain.Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		incomes = append(incomes, *income)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return incomes, nil
}

func (r *IncomeRepository) CountByUser(ctx context.Context, userID string, filter domain.IncomeFilter) (int, error) {
	query := `SELECT COUNT(*) FROM incomes WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendIncomeFilter(query, args, filter)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, ledgerErrors.NewStoreUnavailable(err)
	}
	return total, nil
}

func (r *IncomeRepository) Update(ctx context.Context, income domain.Income) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE incomes
        SET amount = $1, description = $2, source = $3, date = $4, taxable = $5,
            notes = $6, is_recurring = $7, recurring_frequency = $8, updated_at = $9
        WHERE id = $10`,
		income.Amount, income.Description, income.Source, income.Date, income.Taxable,
		income.Notes, income.IsRecurring, nullableString(income.RecurringFrequency),
		income.UpdatedAt, income.ID,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func (r *IncomeRepository) Delete(ctx context.Context, incomeID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = $1`, incomeID)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func appendIncomeFilter(query string, args []interface{}, filter domain.IncomeFilter) (string, []interface{}) {
	if filter.Source != "" {
		args = append(args, filter.Source)
		query += " AND source = $" + strconv.Itoa(len(args))
	}
	return appendDateWindow(query, args, filter.StartDate, filter.EndDate)
}

func scanIncome(row rowScanner) (*domain.Income, error) {
	var income domain.Income
	var frequency sql.NullString
	if err := row.Scan(&income.ID, &income.UserID, &income.Amount, &income.Description,
		&income.Source, &income.Date, &income.Taxable, &income.Notes,
		&income.IsRecurring, &frequency, &income.CreatedAt, &income.UpdatedAt); err != nil {
		return nil, err
	}
	income.RecurringFrequency = frequency.String
	return &income, nil
}
