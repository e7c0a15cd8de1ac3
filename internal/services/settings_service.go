package services

import (
	"context"
	"errors"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/store"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultSettings seeds the store on first read and stands in when it fails.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		AccessKey:       "1234",
		GetKeyURL:       "https://youtube.com",
		MaintenanceMode: false,
		SocialLinks: models.SocialLinks{
			YouTube:  "https://youtube.com/@najmi_ff_experiment?si=Za92yXnG7VuE5Iul",
			Telegram: "https://t.me/najmiffexperiment6",
		},
		AdminEmail: "najmi@gmail.com",
	}
}

// SettingsServiceProvider defines the interface for settings services.
type SettingsServiceProvider interface {
	GetSettings(ctx context.Context) models.AppSettings
	SaveSettings(ctx context.Context, settings models.AppSettings)
}

// SettingsService reads and overwrites the singleton settings record.
type SettingsService struct {
	store  store.Store
	hub    Broadcaster
	events EventServiceProvider
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(st store.Store, hub Broadcaster, events EventServiceProvider) *SettingsService {
	return &SettingsService{store: st, hub: orNop(hub), events: events}
}

// GetSettings returns the stored settings. An absent record is seeded with
// the defaults; a failing store yields the defaults without writing.
func (s *SettingsService) GetSettings(ctx context.Context) models.AppSettings {
	var settings models.AppSettings
	err := store.GetJSON(ctx, s.store, store.KeySettings, &settings)
	if err == nil {
		return settings
	}

	defaults := DefaultSettings()
	if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("Failed to fetch settings, using defaults")
		return defaults
	}

	if err := store.SetJSON(ctx, s.store, store.KeySettings, defaults); err != nil {
		log.Error().Err(err).Msg("Failed to seed default settings")
	}
	return defaults
}

// SaveSettings overwrites the whole settings record. A failed write is
// logged only; callers keep their edited copy.
func (s *SettingsService) SaveSettings(ctx context.Context, settings models.AppSettings) {
	if err := store.SetJSON(ctx, s.store, store.KeySettings, settings); err != nil {
		log.Error().Err(err).Msg("Failed to save settings")
		recordEvent(s.events, "settings.save.fail", "error", "Saving settings failed: "+err.Error())
		return
	}
	recordEvent(s.events, "settings.save", "info", "Settings saved.")
	s.hub.Publish(websocket.ActionSettingsUpdated, PublicSettings(settings))
}

// PublicView is the part of the settings the login and user views may see.
type PublicView struct {
	GetKeyURL       string             `json:"getKeyUrl"`
	MaintenanceMode bool               `json:"maintenanceMode"`
	SocialLinks     models.SocialLinks `json:"socialLinks"`
}

// PublicSettings strips credentials from settings.
func PublicSettings(settings models.AppSettings) PublicView {
	return PublicView{
		GetKeyURL:       settings.GetKeyURL,
		MaintenanceMode: settings.MaintenanceMode,
		SocialLinks:     settings.SocialLinks,
	}
}

func recordEvent(events EventServiceProvider, eventType, level, message string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(eventType, level, message); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
