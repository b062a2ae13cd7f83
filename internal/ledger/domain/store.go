package domain

import (
	"context"
	"time"
)

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func IsValidKind(kind Kind) bool {
	return kind == KindExpense || kind == KindIncome
}

// SumFilter narrows a sum to one category/source label and/or an
// inclusive date window. Zero values mean "no constraint".
type SumFilter struct {
	Label     string
	StartDate time.Time
	EndDate   time.Time
}

// LabelTotal is one row of a category or source breakdown.
type LabelTotal struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// LedgerStore is the read-only aggregation port over a user's expense
// and income records. Every method is scoped to a single userID;
// implementations must never let one user's totals include another
// user's records. "No matching records" yields zero totals, never an
// error; store failures surface as StoreUnavailable.
type LedgerStore interface {
	// Sum totals amounts of the given kind matching the filter.
	Sum(ctx context.Context, userID string, kind Kind, filter SumFilter) (float64, error)

	// GroupByLabel totals by category (expenses) or source (income)
	// inside the window, sorted by total descending. Labels with no
	// matching records are omitted.
	GroupByLabel(ctx context.Context, userID string, kind Kind, startDate, endDate time.Time) ([]LabelTotal, error)

	// GroupByMonth totals by calendar month inside the window. Months
	// with no activity are absent from the map; callers fill gaps.
	GroupByMonth(ctx context.Context, userID string, kind Kind, startDate, endDate time.Time) (map[MonthKey]float64, error)

	// GroupByCategoryMonth totals expenses by category and month
	// inside the window. Both dimensions are sparse.
	GroupByCategoryMonth(ctx context.Context, userID string, startDate, endDate time.Time) (map[MonthKey]map[string]float64, error)
}
