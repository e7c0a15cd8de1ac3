package handlers

import (
	"net/http"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
)

// SettingsHandler handles the admin settings form.
type SettingsHandler struct {
	service services.SettingsServiceProvider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service services.SettingsServiceProvider) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the full settings record, credentials included.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetSettings(r.Context()))
}

// Update overwrites the whole settings record. A failed write is logged by
// the service and not reported here.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings models.AppSettings
	if err := decodeBody(r, &settings); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.service.SaveSettings(r.Context(), settings)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Settings Saved to Database",
		"settings": settings,
	})
}
