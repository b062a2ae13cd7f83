package interfaces

import (
	"context"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/application"
)

type MockReportService struct {
	summary  *application.FinancialSummary
	cashFlow []application.CashFlowPoint
	trends   *application.ExpenseTrends
	err      error

	lastStart time.Time
	lastEnd   time.Time
}

func (m *MockReportService) Summary(ctx context.Context, userID string, startDate, endDate time.Time) (*application.FinancialSummary, error) {
	m.lastStart, m.lastEnd = startDate, endDate
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *MockReportService) CashFlow(ctx context.Context, userID string, startDate, endDate time.Time) ([]application.CashFlowPoint, error) {
	m.lastStart, m.lastEnd = startDate, endDate
	if m.err != nil {
		return nil, m.err
	}
	return m.cashFlow, nil
}

func (m *MockReportService) Trends(ctx context.Context, userID string, startDate, endDate time.Time) (*application.ExpenseTrends, error) {
	m.lastStart, m.lastEnd = startDate, endDate
	if m.err != nil {
		return nil, m.err
	}
	return m.trends, nil
}
