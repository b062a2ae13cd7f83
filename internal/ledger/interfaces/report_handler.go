package interfaces

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/mkarwowski/ExpenseTracker/internal/ledger/application"
)

type ReportServiceInterface interface {
	Summary(ctx context.Context, userID string, startDate, endDate time.Time) (*application.FinancialSummary, error)
	CashFlow(ctx context.Context, userID string, startDate, endDate time.Time) ([]application.CashFlowPoint, error)
	Trends(ctx context.Context, userID string, startDate, endDate time.Time) (*application.ExpenseTrends, error)
}

type ReportHandler struct {
	service      ReportServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
	now          func() time.Time
}

func NewReportHandler(service ReportServiceInterface, respondJSON respondJSONFunc, respondError respondErrorFunc) *ReportHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &ReportHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// resolveRange picks the report window. Explicit startDate+endDate win
// over a named period; a named period wins over the default. Only a
// complete explicit pair counts as explicit.
func (h *ReportHandler) resolveRange(r *http.Request, defaultRange func(time.Time) (time.Time, time.Time), allowPeriod bool) (time.Time, time.Time, bool, string) {
	startDate, err := parseDateParam(r.URL.Query().Get("startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, false, "Invalid start date format"
	}
	endDate, err := parseDateParam(r.URL.Query().Get("endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, false, "Invalid end date format"
	}

	if !startDate.IsZero() && !endDate.IsZero() {
		return startDate, endDate, true, ""
	}

	if allowPeriod {
		if period := r.URL.Query().Get("period"); period != "" {
			startDate, endDate, err = application.ResolveNamedPeriod(period, h.now())
			if err != nil {
				return time.Time{}, time.Time{}, false, err.Error()
			}
			return startDate, endDate, true, ""
		}
	}

	startDate, endDate = defaultRange(h.now())
	return startDate, endDate, true, ""
}

func (h *ReportHandler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	startDate, endDate, ok, message := h.resolveRange(r, application.CurrentMonthRange, true)
	if !ok {
		h.respondError(w, http.StatusBadRequest, message)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, startDate, endDate)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve financial summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Financial summary retrieved successfully.",
		"data":    summary,
	})
}

func (h *ReportHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trailing12 := func(now time.Time) (time.Time, time.Time) {
		return application.TrailingMonthsRange(now, 12)
	}
	startDate, endDate, ok, message := h.resolveRange(r, trailing12, false)
	if !ok {
		h.respondError(w, http.StatusBadRequest, message)
		return
	}

	points, err := h.service.CashFlow(r.Context(), userID, startDate, endDate)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve cash flow")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Cash flow retrieved successfully.",
		"data":    points,
	})
}

func (h *ReportHandler) GetExpenseTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trailing6 := func(now time.Time) (time.Time, time.Time) {
		return application.TrailingMonthsRange(now, 6)
	}
	startDate, endDate, ok, message := h.resolveRange(r, trailing6, false)
	if !ok {
		h.respondError(w, http.StatusBadRequest, message)
		return
	}

	trends, err := h.service.Trends(r.Context(), userID, startDate, endDate)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve expense trends")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense trends retrieved successfully.",
		"data":    trends,
	})
}
