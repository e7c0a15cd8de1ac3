package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/rs/zerolog/log"
)

// HostStatsProvider reports resource usage of the machine running the panel.
type HostStatsProvider interface {
	Snapshot(ctx context.Context) (models.HostStats, error)
}

// StatsHandler serves the admin analytics view.
type StatsHandler struct {
	stats services.StatsServiceProvider
	host  HostStatsProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats services.StatsServiceProvider, host HostStatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats, host: host}
}

// GetUsage returns the daily dispatch counts for the last seven days.
func (h *StatsHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.GetStats(r.Context()))
}

// GetSystem returns a host resource snapshot.
func (h *StatsHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	if h.host == nil {
		http.Error(w, "Host stats unavailable", http.StatusServiceUnavailable)
		return
	}
	snapshot, err := h.host.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read host stats")
		http.Error(w, "Failed to read host stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
