package handler

import (
	"net/http"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/usecase"
)

// RecalcHandler handles explicit recalculation triggers.
type RecalcHandler struct {
	recalc usecase.Recalculator
}

// NewRecalcHandler creates a new RecalcHandler.
func NewRecalcHandler(recalc usecase.Recalculator) *RecalcHandler {
	return &RecalcHandler{recalc: recalc}
}

// Trigger rebuilds the account's materialization and returns the fresh
// snapshot.
func (h *RecalcHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRefFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account reference", err.Error())
		return
	}

	snapshot, err := h.recalc.Recalculate(r.Context(), ref)
	if err != nil {
		writeError(w, mapDomainError(err), "recalculation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(snapshot))
}
