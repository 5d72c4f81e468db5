package handlers

import (
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	importService *service.ImportService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, importService *service.ImportService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		importService: importService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.JSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// VersionResponse represents the version check response
type VersionResponse struct {
	AppVersion string `json:"app_version"`
}

// Version returns the application version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, VersionResponse{
		AppVersion: h.systemService.CheckVersion(),
	})
}

// Reset deletes every imported record and clears the dedup ledger. Stored
// prices and FX rates survive so a re-import does not refetch market data.
func (h *SystemHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.importService.Reset(); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to reset data", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
