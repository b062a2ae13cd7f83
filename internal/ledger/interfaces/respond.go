package interfaces

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	ledgerErrors "github.com/mkarwowski/ExpenseTracker/internal/ledger/errors"
)

type respondJSONFunc func(w http.ResponseWriter, status int, payload interface{})
type respondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

// writeServiceError maps the ledger error taxonomy onto HTTP statuses.
// Store failures are logged and surfaced as 503, never as empty
// results.
func writeServiceError(respondError respondErrorFunc, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ledgerErrors.ErrNotFound):
		respondError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, ledgerErrors.ErrForbidden):
		respondError(w, http.StatusForbidden, "Not authorized to access this resource")
	case errors.Is(err, ledgerErrors.ErrInvalidRange):
		respondError(w, http.StatusBadRequest, ledgerErrors.ErrInvalidRange.Error())
	case ledgerErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case ledgerErrors.IsStoreUnavailable(err):
		log.Printf("Ledger store unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Ledger store unavailable")
	default:
		log.Printf("%s: %v", fallback, err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// parseDateParam parses an optional ISO calendar date query value.
func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func parsePagination(limitStr, pageStr string) (int, int, error) {
	limit, page := 20, 1
	var err error
	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return 0, 0, errors.New("invalid limit value")
		}
	}
	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			return 0, 0, errors.New("invalid page value")
		}
	}
	return limit, page, nil
}
