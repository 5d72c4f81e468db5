package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/importer"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// ImportHandler handles record-import HTTP requests. Bodies are JSON arrays
// of raw broker export rows; header synonyms and locale quirks are resolved
// by the importer, not here.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

func (h *ImportHandler) decodeRows(w http.ResponseWriter, r *http.Request) ([]importer.Row, bool) {
	var rows []importer.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		response.Error(w, http.StatusBadRequest, "failed to decode import rows", err.Error())
		return nil, false
	}
	if len(rows) == 0 {
		response.Error(w, http.StatusBadRequest, "import body is empty", "")
		return nil, false
	}
	return rows, true
}

// Trades imports an operations export: stock trades, cash movements, FX
// conversions, and option executions in one body.
func (h *ImportHandler) Trades(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.decodeRows(w, r)
	if !ok {
		return
	}

	result, err := h.importService.ImportOperations(rows)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to import operations", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Transfers imports a deposits/withdrawals export.
func (h *ImportHandler) Transfers(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.decodeRows(w, r)
	if !ok {
		return
	}

	result, err := h.importService.ImportTransfers(rows)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to import transfers", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Dividends imports a corporate-actions export.
func (h *ImportHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.decodeRows(w, r)
	if !ok {
		return
	}

	result, err := h.importService.ImportDividends(rows)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to import dividends", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Batches lists past import runs with their outcome counts.
func (h *ImportHandler) Batches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.importService.Batches()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve import batches", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, batches)
}
