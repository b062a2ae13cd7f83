package application

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type FinancialSummary struct {
	Period             Period              `json:"period"`
	TotalIncome        float64             `json:"totalIncome"`
	TotalExpenses      float64             `json:"totalExpenses"`
	Balance            float64             `json:"balance"`
	SavingsRate        float64             `json:"savingsRate"`
	ExpensesByCategory []domain.LabelTotal `json:"expensesByCategory"`
	IncomeBySource     []domain.LabelTotal `json:"incomeBySource"`
}

type CashFlowPoint struct {
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type TrendSeries struct {
	Category string    `json:"category"`
	Data     []float64 `json:"data"`
}

type ExpenseTrends struct {
	Labels     []string      `json:"labels"`
	Categories []string      `json:"categories"`
	Series     []TrendSeries `json:"series"`
}

// ReportCache holds computed report payloads between ledger writes.
type ReportCache interface {
	Get(userID, key string) (interface{}, bool)
	Set(userID, key string, value interface{})
	InvalidateUser(userID string)
}

type ReportService struct {
	store domain.LedgerStore
	cache ReportCache
}

// NewReportService builds a report service. cache may be nil, in
// which case every call recomputes from the store.
func NewReportService(store domain.LedgerStore, cache ReportCache) *ReportService {
	return &ReportService{store: store, cache: cache}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func cacheKey(report string, startDate, endDate time.Time) string {
	return report + "|" + startDate.Format("2006-01-02") + "|" + endDate.Format("2006-01-02")
}

// Summary computes totals, balance, savings rate and the category and
// source breakdowns for the window. A window with no records is a
// valid all-zero summary, not an error.
func (s *ReportService) Summary(ctx context.Context, userID string, startDate, endDate time.Time) (*FinancialSummary, error) {
	if err := ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	key := cacheKey("summary", startDate, endDate)
	if s.cache != nil {
		if cached, ok := s.cache.Get(userID, key); ok {
			if summary, ok := cached.(*FinancialSummary); ok {
				return summary, nil
			}
		}
	}

	window := domain.SumFilter{StartDate: startDate, EndDate: endDate}
	totalExpenses, err := s.store.Sum(ctx, userID, domain.KindExpense, window)
	if err != nil {
		return nil, err
	}
	totalIncome, err := s.store.Sum(ctx, userID, domain.KindIncome, window)
	if err != nil {
		return nil, err
	}
	expensesByCategory, err := s.store.GroupByLabel(ctx, userID, domain.KindExpense, startDate, endDate)
	if err != nil {
		return nil, err
	}
	incomeBySource, err := s.store.GroupByLabel(ctx, userID, domain.KindIncome, startDate, endDate)
	if err != nil {
		return nil, err
	}

	balance := totalIncome - totalExpenses
	var savingsRate float64
	if totalIncome > 0 {
		savingsRate = round2(balance / totalIncome * 100)
	}

	summary := &FinancialSummary{
		Period:             Period{StartDate: startDate, EndDate: endDate},
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		Balance:            balance,
		SavingsRate:        savingsRate,
		ExpensesByCategory: expensesByCategory,
		IncomeBySource:     incomeBySource,
	}
	if s.cache != nil {
		s.cache.Set(userID, key, summary)
	}
	return summary, nil
}

// CashFlow emits one point per calendar month from startDate to
// endDate inclusive, in chronological order. Months without activity
// get explicit zeros so chart axes stay contiguous.
func (s *ReportService) CashFlow(ctx context.Context, userID string, startDate, endDate time.Time) ([]CashFlowPoint, error) {
	if err := ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	key := cacheKey("cashflow", startDate, endDate)
	if s.cache != nil {
		if cached, ok := s.cache.Get(userID, key); ok {
			if points, ok := cached.([]CashFlowPoint); ok {
				return points, nil
			}
		}
	}

	monthlyExpenses, err := s.store.GroupByMonth(ctx, userID, domain.KindExpense, startDate, endDate)
	if err != nil {
		return nil, err
	}
	monthlyIncome, err := s.store.GroupByMonth(ctx, userID, domain.KindIncome, startDate, endDate)
	if err != nil {
		return nil, err
	}

	months := MonthsInRange(startDate, endDate)
	points := make([]CashFlowPoint, 0, len(months))
	for _, month := range months {
		key := monthKey(month)
		income := monthlyIncome[key]
		expenses := monthlyExpenses[key]
		points = append(points, CashFlowPoint{
			Label:    MonthLabel(month),
			Income:   income,
			Expenses: expenses,
			Balance:  income - expenses,
		})
	}
	if s.cache != nil {
		s.cache.Set(userID, key, points)
	}
	return points, nil
}

// Trends builds the category-by-month expense matrix. Only categories
// with at least one expense in the window appear; unlike the cash-flow
// month axis, the category axis is never gap-filled.
func (s *ReportService) Trends(ctx context.Context, userID string, startDate, endDate time.Time) (*ExpenseTrends, error) {
	if err := ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	key := cacheKey("trends", startDate, endDate)
	if s.cache != nil {
		if cached, ok := s.cache.Get(userID, key); ok {
			if trends, ok := cached.(*ExpenseTrends); ok {
				return trends, nil
			}
		}
	}

	byCategoryMonth, err := s.store.GroupByCategoryMonth(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	categorySet := make(map[string]struct{})
	for _, totals := range byCategoryMonth {
		for category := range totals {
			categorySet[category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	months := MonthsInRange(startDate, endDate)
	labels := make([]string, 0, len(months))
	for _, month := range months {
		labels = append(labels, MonthLabel(month))
	}

	series := make([]TrendSeries, 0, len(categories))
	for _, category := range categories {
		data := make([]float64, 0, len(months))
		for _, month := range months {
			data = append(data, byCategoryMonth[monthKey(month)][category])
		}
		series = append(series, TrendSeries{Category: category, Data: data})
	}

	trends := &ExpenseTrends{Labels: labels, Categories: categories, Series: series}
	if s.cache != nil {
		s.cache.Set(userID, key, trends)
	}
	return trends, nil
}
