package handlers

import (
	"net/http"

	"github.com/isdelr/emote-panel-be/internal/auth"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
)

// DispatchHandler handles emote button presses from the user panel.
type DispatchHandler struct {
	service services.DispatchServiceProvider
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(service services.DispatchServiceProvider) *DispatchHandler {
	return &DispatchHandler{service: service}
}

// Send fires one emote at the selected server. Every outcome except a
// second press while one is in flight is reported with 200; the status
// field tells the panel which message to show.
func (h *DispatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.DispatchRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.service.SendEmote(r.Context(), sessionID(r), req)
	status := http.StatusOK
	if result.Status == models.DispatchBusy {
		status = http.StatusConflict
	}
	writeJSON(w, status, result)
}

func sessionID(r *http.Request) string {
	if claims := auth.ClaimsFrom(r.Context()); claims != nil {
		return claims.SessionID
	}
	return ""
}
