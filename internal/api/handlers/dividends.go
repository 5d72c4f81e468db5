package handlers

import (
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// DividendHandler handles dividend HTTP requests
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// Dividends lists every stored dividend ordered by datetime.
func (h *DividendHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	dividends, err := h.dividendService.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve dividends", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, dividends)
}

// Daily returns per-day, per-currency dividend totals.
func (h *DividendHandler) Daily(w http.ResponseWriter, r *http.Request) {
	daily, err := h.dividendService.Daily()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to aggregate dividends by day", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, daily)
}

// ByAsset returns lifetime dividend totals per ticker.
func (h *DividendHandler) ByAsset(w http.ResponseWriter, r *http.Request) {
	byAsset, err := h.dividendService.ByAsset()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to aggregate dividends by asset", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, byAsset)
}
