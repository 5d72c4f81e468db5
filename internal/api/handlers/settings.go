package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Settings returns every stored setting. Secret values come back masked.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to retrieve settings", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

// SettingRequest is the body of a settings update.
type SettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Update stores one setting value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "failed to decode setting", err.Error())
		return
	}
	if req.Key == "" {
		response.Error(w, http.StatusBadRequest, "setting key is required", "")
		return
	}

	if err := h.settingsService.Set(req.Key, req.Value); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to store setting", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "stored"})
}
