package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
)

// CatalogHandler handles HTTP requests for servers and emotes.
type CatalogHandler struct {
	service services.CatalogServiceProvider
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service services.CatalogServiceProvider) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type serverList struct {
	Servers []models.Server `json:"servers"`
	// DefaultServerID is preselected by the user panel. Empty when there
	// are no servers.
	DefaultServerID string `json:"defaultServerId"`
}

// ListServers returns the servers sorted by display order.
func (h *CatalogHandler) ListServers(w http.ResponseWriter, r *http.Request) {
	servers := h.service.ListServers(r.Context())
	resp := serverList{Servers: servers}
	if len(servers) > 0 {
		resp.DefaultServerID = servers[0].ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListEmotes returns the emote catalog.
func (h *CatalogHandler) ListEmotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListEmotes(r.Context()))
}

// CreateServer handles the admin "add server" form.
func (h *CatalogHandler) CreateServer(w http.ResponseWriter, r *http.Request) {
	var draft models.ServerDraft
	if err := decodeBody(r, &draft); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	server, err := h.service.AddServer(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err, "Failed to add server")
		return
	}
	writeJSON(w, http.StatusCreated, server)
}

// DeleteServer removes a server. Unknown ids succeed without change.
func (h *CatalogHandler) DeleteServer(w http.ResponseWriter, r *http.Request) {
	h.service.DeleteServer(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// CreateEmote handles the admin "add emote" form.
func (h *CatalogHandler) CreateEmote(w http.ResponseWriter, r *http.Request) {
	var draft models.EmoteDraft
	if err := decodeBody(r, &draft); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	emote, err := h.service.AddEmote(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err, "Failed to add emote")
		return
	}
	writeJSON(w, http.StatusCreated, emote)
}

// DeleteEmote removes an emote. Unknown ids succeed without change.
func (h *CatalogHandler) DeleteEmote(w http.ResponseWriter, r *http.Request) {
	h.service.DeleteEmote(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// Reload refreshes both collections from the store and returns them.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.service.Reload(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"servers": h.service.ListServers(r.Context()),
		"emotes":  h.service.ListEmotes(r.Context()),
	})
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, fallback)
}
