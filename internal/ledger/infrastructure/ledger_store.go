package infrastructure

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

// SQLLedgerStore implements the read-only aggregation port over the
// expenses and incomes tables. Every query filters by user_id; the
// tenancy guarantee lives in these WHERE clauses.
type SQLLedgerStore struct {
	db *sql.DB
}

func NewSQLLedgerStore(db *sql.DB) *SQLLedgerStore {
	return &SQLLedgerStore{db: db}
}

func tableAndLabel(kind domain.Kind) (string, string) {
	if kind == domain.KindIncome {
		return "incomes", "source"
	}
	return "expenses", "category"
}

func (s *SQLLedgerStore) Sum(ctx context.Context, userID string, kind domain.Kind, filter domain.SumFilter) (float64, error) {
	table, labelColumn := tableAndLabel(kind)

	query := "SELECT COALESCE(SUM(amount), 0) FROM " + table + " WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Label != "" {
		args = append(args, filter.Label)
		query += " AND " + labelColumn + " = $2"
	}
	query, args = appendDateWindow(query, args, filter.StartDate, filter.EndDate)

	var total float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, ledgerErrors.NewStoreUnavailable(err)
	}
	return total, nil
}

func (s *SQLLedgerStore) GroupByLabel(ctx context.Context, userID string, kind domain.Kind, startDate, endDate time.Time) ([]domain.LabelTotal, error) {
	table, labelColumn := tableAndLabel(kind)

	query := "SELECT " + labelColumn + ", SUM(amount) FROM " + table + " WHERE user_id = $1"
	args := []interface{}{userID}
	query, args = appendDateWindow(query, args, startDate, endDate)
	query += " GROUP BY " + labelColumn + " ORDER BY SUM(amount) DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var totals []domain.LabelTotal
	for rows.Next() {
		var lt domain.LabelTotal
		if err := rows.Scan(&lt.Label, &lt.Total); err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		totals = append(totals, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return totals, nil
}

func (s *SQLLedgerStore) GroupByMonth(ctx context.Context, userID string, kind domain.Kind, startDate, endDate time.Time) (map[domain.MonthKey]float64, error) {
	table, _ := tableAndLabel(kind)

	query := "SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, SUM(amount) FROM " + table + " WHERE user_id = $1"
	args := []interface{}{userID}
	query, args = appendDateWindow(query, args, startDate, endDate)
	query += " GROUP BY 1, 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	totals := make(map[domain.MonthKey]float64)
	for rows.Next() {
		var year, month int
		var total float64
		if err := rows.Scan(&year, &month, &total); err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		totals[domain.MonthKey{Year: year, Month: time.Month(month)}] = total
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return totals, nil
}

func (s *SQLLedgerStore) GroupByCategoryMonth(ctx context.Context, userID string, startDate, endDate time.Time) (map[domain.MonthKey]map[string]float64, error) {
	query := "SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, category, SUM(amount) FROM expenses WHERE user_id = $1"
	args := []interface{}{userID}
	query, args = appendDateWindow(query, args, startDate, endDate)
	query += " GROUP BY 1, 2, 3"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	totals := make(map[domain.MonthKey]map[string]float64)
	for rows.Next() {
		var year, month int
		var category string
		var total float64
		if err := rows.Scan(&year, &month, &category, &total); err != nil {
			return nil, ledgerErrors.NewStoreUnavailable(err)
		}
		key := domain.MonthKey{Year: year, Month: time.Month(month)}
		if totals[key] == nil {
			totals[key] = make(map[string]float64)
		}
		totals[key][category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreUnavailable(err)
	}
	return totals, nil
}

func appendDateWindow(query string, args []interface{}, startDate, endDate time.Time) (string, []interface{}) {
	if !startDate.IsZero() {
		args = append(args, startDate)
		query += " AND date >= $" + strconv.Itoa(len(args))
	}
	if !endDate.IsZero() {
		args = append(args, endDate)
		query += " AND date <= $" + strconv.Itoa(len(args))
	}
	return query, args
}
