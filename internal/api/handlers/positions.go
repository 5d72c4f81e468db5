package handlers

import (
	"net/http"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// PositionHandler handles position and summary HTTP requests
type PositionHandler struct {
	positionService *service.PositionService
	transferService *service.TransferService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(positionService *service.PositionService, transferService *service.TransferService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
		transferService: transferService,
	}
}

// Positions returns the FIFO-derived state of every traded ticker.
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positionService.Positions(time.Now())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve positions", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, positions)
}

// Summary returns the top-line profit against net external contributions.
func (h *PositionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.transferService.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve transfers", err.Error())
		return
	}

	summary, err := h.positionService.Summary(time.Now(), transfers)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to compute summary", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, summary)
}
