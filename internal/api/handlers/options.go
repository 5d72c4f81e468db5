package handlers

import (
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// OptionsHandler handles option HTTP requests
type OptionsHandler struct {
	optionsService *service.OptionsService
}

// NewOptionsHandler creates a new OptionsHandler
func NewOptionsHandler(optionsService *service.OptionsService) *OptionsHandler {
	return &OptionsHandler{
		optionsService: optionsService,
	}
}

// Summary returns aggregate premium cash effects across all option trades.
func (h *OptionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.optionsService.Summary()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve options summary", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// ByUnderlying returns put/call contract and notional splits per underlying.
func (h *OptionsHandler) ByUnderlying(w http.ResponseWriter, r *http.Request) {
	stats, err := h.optionsService.ByUnderlying()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to aggregate options by underlying", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, stats)
}
