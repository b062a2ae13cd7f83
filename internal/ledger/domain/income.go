package domain

import (
	"context"
	"math"
	"time"

	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

var incomeSources = []string{
	"Salary", "Freelance", "Business", "Investments",
	"Dividends", "Rental", "Interest", "Gifts",
	"Refunds", "Sale", "Other",
}

type Income struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	Source             string    `json:"source"`
	Date               time.Time `json:"date"`
	Taxable            bool      `json:"taxable"`
	Notes              string    `json:"notes,omitempty"`
	IsRecurring        bool      `json:"isRecurring"`
	RecurringFrequency string    `json:"recurringFrequency,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (i *Income) RoundToTwoDecimalPlaces() {
	i.Amount = math.Round(i.Amount*100) / 100
}

func (i *Income) Validate() error {
	if i.Amount <= 0 {
		return ledgerErrors.NewValidationError("Amount must be greater than zero")
	}
	if !IsValidIncomeSource(i.Source) {
		return ledgerErrors.ErrInvalidSource
	}
	if i.Date.IsZero() {
		return ledgerErrors.NewValidationError("Date is required")
	}
	if len(i.Description) > 200 {
		return ledgerErrors.NewValidationError("Description must be of length less than 200")
	}
	if i.IsRecurring && !contains(recurringFrequencies, i.RecurringFrequency) {
		return ledgerErrors.NewValidationError("Invalid recurring frequency")
	}
	return nil
}

func IsValidIncomeSource(source string) bool {
	return contains(incomeSources, source)
}

func IncomeSources() []string {
	out := make([]string, len(incomeSources))
	copy(out, incomeSources)
	return out
}

type IncomeFilter struct {
	Source    string
	StartDate time.Time
	EndDate   time.Time
}

type IncomeRepository interface {
	Save(ctx context.Context, income Income) error
	FindByID(ctx context.Context, incomeID string) (*Income, error)
	FindByUser(ctx context.Context, userID string, filter IncomeFilter, limit, page int) ([]Income, error)
	CountByUser(ctx context.Context, userID string, filter IncomeFilter) (int, error)
	Update(ctx context.Context, income Income) error
	Delete(ctx context.Context, incomeID string) error
}
