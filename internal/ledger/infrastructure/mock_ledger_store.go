package infrastructure

import (
	"context"
	"sort"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

// MockLedgerStore aggregates in memory over fixture slices. Err, when
// set, is returned by every method to simulate store failure.
type MockLedgerStore struct {
	Expenses []domain.Expense
	Incomes  []domain.Income
	Err      error

	SumCalls int
}

type ledgerRecord struct {
	label  string
	date   time.Time
	amount float64
}

func (m *MockLedgerStore) records(userID string, kind domain.Kind) []ledgerRecord {
	var records []ledgerRecord
	if kind == domain.KindIncome {
		for _, income := range m.Incomes {
			if income.UserID == userID {
				records = append(records, ledgerRecord{income.Source, income.Date, income.Amount})
			}
		}
		return records
	}
	for _, expense := range m.Expenses {
		if expense.UserID == userID {
			records = append(records, ledgerRecord{expense.Category, expense.Date, expense.Amount})
		}
	}
	return records
}

func inWindow(date, startDate, endDate time.Time) bool {
	if !startDate.IsZero() && date.Before(startDate) {
		return false
	}
	if !endDate.IsZero() && date.After(endDate) {
		return false
	}
	return true
}

func (m *MockLedgerStore) Sum(_ context.Context, userID string, kind domain.Kind, filter domain.SumFilter) (float64, error) {
	m.SumCalls++
	if m.Err != nil {
		return 0, m.Err
	}
	var total float64
	for _, record := range m.records(userID, kind) {
		if filter.Label != "" && record.label != filter.Label {
			continue
		}
		if !inWindow(record.date, filter.StartDate, filter.EndDate) {
			continue
		}
		total += record.amount
	}
	return total, nil
}

func (m *MockLedgerStore) GroupByLabel(_ context.Context, userID string, kind domain.Kind, startDate, endDate time.Time) ([]domain.LabelTotal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	byLabel := make(map[string]float64)
	for _, record := range m.records(userID, kind) {
		if inWindow(record.date, startDate, endDate) {
			byLabel[record.label] += record.amount
		}
	}
	var totals []domain.LabelTotal
	for label, total := range byLabel {
		totals = append(totals, domain.LabelTotal{Label: label, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Label < totals[j].Label
	})
	return totals, nil
}

func (m *MockLedgerStore) GroupByMonth(_ context.Context, userID string, kind domain.Kind, startDate, endDate time.Time) (map[domain.MonthKey]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	totals := make(map[domain.MonthKey]float64)
	for _, record := range m.records(userID, kind) {
		if inWindow(record.date, startDate, endDate) {
			totals[domain.MonthKey{Year: record.date.Year(), Month: record.date.Month()}] += record.amount
		}
	}
	return totals, nil
}

func (m *MockLedgerStore) GroupByCategoryMonth(_ context.Context, userID string, startDate, endDate time.Time) (map[domain.MonthKey]map[string]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	totals := make(map[domain.MonthKey]map[string]float64)
	for _, record := range m.records(userID, domain.KindExpense) {
		if !inWindow(record.date, startDate, endDate) {
			continue
		}
		key := domain.MonthKey{Year: record.date.Year(), Month: record.date.Month()}
		if totals[key] == nil {
			totals[key] = make(map[string]float64)
		}
		totals[key][record.label] += record.amount
	}
	return totals, nil
}
