package handler

import (
	"net/http"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/usecase"
)

// BalanceHandler handles balance snapshot requests.
type BalanceHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(ledgerUC *usecase.LedgerUseCase) *BalanceHandler {
	return &BalanceHandler{ledgerUC: ledgerUC}
}

// Get returns the account's balance snapshot, materializing it when absent.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRefFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account reference", err.Error())
		return
	}

	snapshot, err := h.ledgerUC.GetBalance(r.Context(), ref)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(snapshot))
}
