package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateExpense_Success(t *testing.T) {
	mockService := &MockExpenseService{}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	body := `{"amount":25.5,"description":"Lunch","category":"Food","date":"2024-06-05T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
	w := httptest.NewRecorder()
	handler.CreateExpense(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Status string         `json:"status"`
		Data   domain.Expense `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "user-1", response.Data.UserID)
	assert.Equal(t, "generated-id", response.Data.ID)
}

func TestCreateExpense_Unauthorized(t *testing.T) {
	mockService := &MockExpenseService{}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	handler.CreateExpense(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateExpense_InvalidCategory(t *testing.T) {
	mockService := &MockExpenseService{err: ledgerErrors.ErrInvalidCategory}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	body := `{"amount":25.5,"description":"Lunch","category":"Lunches","date":"2024-06-05T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
	w := httptest.NewRecorder()
	handler.CreateExpense(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGetUserExpenses_ParsesFilterAndPagination(t *testing.T) {
	mockService := &MockExpenseService{expenses: []domain.Expense{}, total: 0}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	req := authedRequest(http.MethodGet, "/expenses?category=Food&startDate=2024-06-01&endDate=2024-06-30&limit=5&page=2")
	w := httptest.NewRecorder()
	handler.GetUserExpenses(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Food", mockService.lastFilter.Category)
	assert.Equal(t, 5, mockService.lastLimit)
	assert.Equal(t, 2, mockService.lastPage)
}

func TestGetUserExpenses_InvalidPagination(t *testing.T) {
	mockService := &MockExpenseService{}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	req := authedRequest(http.MethodGet, "/expenses?limit=0")
	w := httptest.NewRecorder()
	handler.GetUserExpenses(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGetUserExpenses_EmptyIsNotAnError(t *testing.T) {
	mockService := &MockExpenseService{expenses: []domain.Expense{}, total: 0}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	req := authedRequest(http.MethodGet, "/expenses")
	w := httptest.NewRecorder()
	handler.GetUserExpenses(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, float64(0), response["total"])
}

func TestGetExpense_NotFound(t *testing.T) {
	mockService := &MockExpenseService{err: ledgerErrors.ErrNotFound}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	req := authedRequest(http.MethodGet, "/expenses/missing")
	req.SetPathValue("expenseID", "missing")
	w := httptest.NewRecorder()
	handler.GetExpense(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateExpense_Forbidden(t *testing.T) {
	mockService := &MockExpenseService{err: ledgerErrors.ErrForbidden}
	handler := NewExpenseHandler(mockService, respondJSON, respondError)

	body := `{"amount":10,"description":"Coffee","category":"Food","date":"2024-06-05T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPut, "/expenses/e-1", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "userID", "user-2"))
	req.SetPathValue("expenseID", "e-1")
	w := httptest.NewRecorder()
	handler.UpdateExpense(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
