package handler

import (
	"net/http"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerHandler handles materialized ledger read requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// List returns the account's ledger rows, optionally bounded by from/to
// RFC3339 query parameters.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRefFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account reference", err.Error())
		return
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'from' format (use RFC3339)", err.Error())
		return
	}

	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'to' format (use RFC3339)", err.Error())
		return
	}

	rows, err := h.ledgerUC.GetLedger(r.Context(), usecase.GetLedgerInput{
		Ref:  ref,
		From: from,
		To:   to,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list ledger rows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerRowsFromDomain(rows))
}
