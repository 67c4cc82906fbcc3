package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAccountType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAccountRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLockNotAcquired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// accountRefFromRequest builds the composite account identity from the URL.
func accountRefFromRequest(r *http.Request) (domain.AccountRef, error) {
	accountType, err := domain.ParseAccountType(chi.URLParam(r, "accountType"))
	if err != nil {
		return domain.AccountRef{}, err
	}

	ref := domain.AccountRef{
		TenantID:  chi.URLParam(r, "tenantID"),
		AccountID: chi.URLParam(r, "accountID"),
		Type:      accountType,
	}

	return ref, ref.Validate()
}

// parseTimeQuery parses an optional RFC3339 query parameter.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
