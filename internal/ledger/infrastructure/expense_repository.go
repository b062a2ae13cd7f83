package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, user_id, amount, description, category, date, payment_method, tags, notes, is_recurring, recurring_frequency, created_at, updated_at`

func (r *ExpenseRepository) Save(ctx context.Context, expense domain.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		expense.ID, expense.UserID, expense.Amount, expense.Description, expense.Category,
		expense.Date, expense.PaymentMethod, joinTags(expense.Tags), expense.Notes,
		expense.IsRecurring, nullableString(expense.RecurringFrequency), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.ErrNotFound
		}
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return expense, nil
}

func (r *ExpenseRepository) FindByUser(ctx context.Context, userID string, filter domain.ExpenseFilter, limit, page int) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendExpenseFilter(query, args, filter)
	query += " ORDER BY date DESC, id"
	args = append(args, limit, (page-1)*limit)
	query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) CountByUser(ctx context.Context, userID string, filter domain.ExpenseFilter) (int, error) {
	query := `SELECT COUNT(*) FROM expenses WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendExpenseFilter(query, args, filter)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, ledgerErrors.NewStoreUnavailable(err)
	}
	return total, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense domain.Expense) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses
        SET amount = $1, description = $2, category = $3, date = $4, payment_method = $5,
            tags = $6, notes = $7, is_recurring = $8, recurring_frequency = $9, updated_at = $10
        WHERE id = $11`,
		expense.Amount, expense.Description, expense.Category, expense.Date, expense.PaymentMethod,
		joinTags(expense.Tags), expense.Notes, expense.IsRecurring, nullableString(expense.RecurringFrequency),
		expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func (r *ExpenseRepository) Delete(ctx context.Context, expenseID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	return requireRow(result)
}

func appendExpenseFilter(query string, args []interface{}, filter domain.ExpenseFilter) (string, []interface{}) {
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += " AND category = $" + strconv.Itoa(len(args))
	}
	return appendDateWindow(query, args, filter.StartDate, filter.EndDate)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var expense domain.Expense
	var tags sql.NullString
	var frequency sql.NullString
	if err := row.Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Description,
		&expense.Category, &expense.Date, &expense.PaymentMethod, &tags, &expense.Notes,
		&expense.IsRecurring, &frequency, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}
	expense.Tags = splitTags(tags.String)
	expense.RecurringFrequency = frequency.String
	return &expense, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreUnavailable(err)
	}
	if affected == 0 {
		return ledgerErrors.ErrNotFound
	}
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinTags(tags []string) sql.NullString {
	if len(tags) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(tags, ","), Valid: true}
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
