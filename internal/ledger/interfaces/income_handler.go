package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/domain"
)

type IncomeServiceInterface interface {
	CreateIncome(ctx context.Context, income *domain.Income) error
	GetIncome(ctx context.Context, callerID, incomeID string) (*domain.Income, error)
	GetUserIncomes(ctx context.Context, userID string, filter domain.IncomeFilter, limit, page int) ([]domain.Income, int, error)
	UpdateIncome(ctx context.Context, callerID string, income domain.Income) (*domain.Income, error)
	DeleteIncome(ctx context.Context, callerID, incomeID string) error
}

type IncomeHandler struct {
	service      IncomeServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
}

func NewIncomeHandler(service IncomeServiceInterface, respondJSON respondJSONFunc, respondError respondErrorFunc) *IncomeHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &IncomeHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var income domain.Income
	if err := json.NewDecoder(r.Body).Decode(&income); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	income.UserID = userID
	if err := h.service.CreateIncome(r.Context(), &income); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create income")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Income successfully created.",
		"data":    income,
	})
}

func (h *IncomeHandler) GetIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	income, err := h.service.GetIncome(r.Context(), userID, r.PathValue("incomeID"))
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve income")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   income,
	})
}

func (h *IncomeHandler) GetUserIncomes(w http.ResponseWriter, r *http.Request) {
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

	filter := domain.IncomeFilter{
		Source:    r.URL.Query().Get("source"),
		StartDate: startDate,
		EndDate:   endDate,
	}
	incomes, total, err := h.service.GetUserIncomes(r.Context(), userID, filter, limit, page)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve incomes")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Incomes retrieved successfully.",
		"data":    incomes,
		"count":   len(incomes),
		"total":   total,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var income domain.Income
	if err := json.NewDecoder(r.Body).Decode(&income); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	income.ID = r.PathValue("incomeID")

	updated, err := h.service.UpdateIncome(r.Context(), userID, income)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update income")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Income successfully updated.",
		"data":    updated,
	})
}

func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteIncome(r.Context(), userID, r.PathValue("incomeID")); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete income")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Income successfully deleted.",
	})
}
