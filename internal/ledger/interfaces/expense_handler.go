package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	GetExpense(ctx context.Context, callerID, expenseID string) (*domain.Expense, error)
	GetUserExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter, limit, page int) ([]domain.Expense, int, error)
	UpdateExpense(ctx context.Context, callerID string, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, callerID, expenseID string) error
}

type ExpenseHandler struct {
	service      ExpenseServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
}

func NewExpenseHandler(service ExpenseServiceInterface, respondJSON respondJSONFunc, respondError respondErrorFunc) *ExpenseHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &ExpenseHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var expense domain.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense.UserID = userID
	if err := h.service.CreateExpense(r.Context(), &expense); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create expense")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully created.",
		"data":    expense,
	})
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expense, err := h.service.GetExpense(r.Context(), userID, r.PathValue("expenseID"))
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   expense,
	})
}

func (h *ExpenseHandler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	startDate, err := parseDateParam(r.URL.Query().Get("startDate"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid start date format")
		return
	}
	endDate, err := parseDateParam(r.URL.Query().Get("endDate"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid end date format")
		return
	}
	limit, page, err := parsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("page"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := domain.ExpenseFilter{
		Category:  r.URL.Query().Get("category"),
		StartDate: startDate,
		EndDate:   endDate,
	}
	expenses, total, err := h.service.GetUserExpenses(r.Context(), userID, filter, limit, page)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve expenses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expenses retrieved successfully.",
		"data":    expenses,
		"count":   len(expenses),
		"total":   total,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var expense domain.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	expense.ID = r.PathValue("expenseID")

	updated, err := h.service.UpdateExpense(r.Context(), userID, expense)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully updated.",
		"data":    updated,
	})
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), userID, r.PathValue("expenseID")); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully deleted.",
	})
}
