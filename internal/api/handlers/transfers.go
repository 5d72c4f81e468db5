package handlers

import (
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// TransferHandler handles cash ledger HTTP requests
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Transfers lists every ledger row; ?external=true narrows the response to
// rows that move money in or out of the account.
func (h *TransferHandler) Transfers(w http.ResponseWriter, r *http.Request) {
	list := h.transferService.List
	if r.URL.Query().Get("external") == "true" {
		list = h.transferService.External
	}

	transfers, err := list()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve transfers", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, transfers)
}
