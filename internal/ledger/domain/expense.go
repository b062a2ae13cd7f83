package domain

import (
	"context"
	"math"
	"time"

	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

var expenseCategories = []string{
	"Housing", "Transportation", "Food", "Utilities",
	"Insurance", "Healthcare", "Debt", "Personal",
	"Entertainment", "Education", "Clothing", "Gifts",
	"Savings", "Investments", "Taxes", "Other",
}

var paymentMethods = []string{
	"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Mobile Payment", "Other",
}

var recurringFrequencies = []string{
	"Daily", "Weekly", "Bi-weekly", "Monthly", "Quarterly", "Yearly",
}

type Expense struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Date               time.Time `json:"date"`
	PaymentMethod      string    `json:"paymentMethod"`
	Tags               []string  `json:"tags,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	IsRecurring        bool      `json:"isRecurring"`
	RecurringFrequency string    `json:"recurringFrequency,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (e *Expense) RoundToTwoDecimalPlaces() {
	e.Amount = math.Round(e.Amount*100) / 100
}

func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return ledgerErrors.NewValidationError("Amount must be greater than zero")
	}
	if !IsValidExpenseCategory(e.Category) {
		return ledgerErrors.ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ledgerErrors.NewValidationError("Date is required")
	}
	if len(e.Description) > 200 {
		return ledgerErrors.NewValidationError("Description must be of length less than 200")
	}
	if e.PaymentMethod != "" && !contains(paymentMethods, e.PaymentMethod) {
		return ledgerErrors.NewValidationError("Invalid payment method")
	}
	if e.IsRecurring && !contains(recurringFrequencies, e.RecurringFrequency) {
		return ledgerErrors.NewValidationError("Invalid recurring frequency")
	}
	return nil
}

func IsValidExpenseCategory(category string) bool {
	return contains(expenseCategories, category)
}

// ExpenseCategories returns the fixed category set in declaration order.
func ExpenseCategories() []string {
	out := make([]string, len(expenseCategories))
	copy(out, expenseCategories)
	return out
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

type ExpenseFilter struct {
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

type ExpenseRepository interface {
	Save(ctx context.Context, expense Expense) error
	FindByID(ctx context.Context, expenseID string) (*Expense, error)
	FindByUser(ctx context.Context, userID string, filter ExpenseFilter, limit, page int) ([]Expense, error)
	CountByUser(ctx context.Context, userID string, filter ExpenseFilter) (int, error)
	Update(ctx context.Context, expense Expense) error
	Delete(ctx context.Context, expenseID string) error
}
