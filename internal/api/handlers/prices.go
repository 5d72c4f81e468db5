package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// PriceHandler handles price HTTP requests
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// History returns the stored close history for one ticker.
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		response.Error(w, http.StatusBadRequest, "ticker is required", "")
		return
	}

	prices, err := h.priceService.History(ticker)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve prices", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, prices)
}

// Sync fetches missing closes and FX rates for every traded ticker and
// currency. Runs synchronously; the response maps each symbol to the number
// of rows stored.
func (h *PriceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.priceService.SyncAll(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to sync prices", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, summary)
}
