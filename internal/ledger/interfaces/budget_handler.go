package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/application"
	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	GetBudget(ctx context.Context, callerID, budgetID string) (*application.BudgetProgress, error)
	GetUserBudgets(ctx context.Context, userID string, filter domain.BudgetFilter, limit, page int) ([]application.BudgetProgress, int, error)
	GetBudgetProgress(ctx context.Context, userID string) ([]application.BudgetProgress, error)
	UpdateBudget(ctx context.Context, callerID string, budget domain.Budget) (*application.BudgetProgress, error)
	DeleteBudget(ctx context.Context, callerID, budgetID string) error
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
}

func NewBudgetHandler(service BudgetServiceInterface, respondJSON respondJSONFunc, respondError respondErrorFunc) *BudgetHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &BudgetHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var budget domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget.UserID = userID
	if err := h.service.CreateBudget(r.Context(), &budget); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create budget")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully created.",
		"data":    budget,
	})
}

func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	progress, err := h.service.GetBudget(r.Context(), userID, r.PathValue("budgetID"))
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   progress,
	})
}

func (h *BudgetHandler) GetUserBudgets(w http.ResponseWriter, r *http.Request) {
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

	filter := domain.BudgetFilter{
		Category:  r.URL.Query().Get("category"),
		StartDate: startDate,
		EndDate:   endDate,
		All:       r.URL.Query().Get("all") == "true",
	}
	if isActiveStr := r.URL.Query().Get("isActive"); isActiveStr != "" {
		isActive, err := strconv.ParseBool(isActiveStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid isActive value")
			return
		}
		filter.IsActive = &isActive
	}

	budgets, total, err := h.service.GetUserBudgets(r.Context(), userID, filter, limit, page)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve budgets")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budgets retrieved successfully.",
		"data":    budgets,
		"count":   len(budgets),
		"total":   total,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
		},
	})
}

// GetBudgetProgress returns the evaluation of every active budget whose
// window covers now. No active budgets yields an empty list, not an
// error.
func (h *BudgetHandler) GetBudgetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	progress, err := h.service.GetBudgetProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve budget progress")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget progress retrieved successfully.",
		"data":    progress,
		"count":   len(progress),
	})
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var budget domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	budget.ID = r.PathValue("budgetID")

	updated, err := h.service.UpdateBudget(r.Context(), userID, budget)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully updated.",
		"data":    updated,
	})
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteBudget(r.Context(), userID, r.PathValue("budgetID")); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully deleted.",
	})
}
