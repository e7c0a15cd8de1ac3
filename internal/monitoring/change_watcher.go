package monitoring

import (
	"context"

	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/isdelr/emote-panel-be/internal/store"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ChangeWatcher follows writes made by other processes sharing the store
// and pushes them to connected panels, so an admin edit on one instance
// shows up live everywhere.
type ChangeWatcher struct {
	notifier    store.Notifier
	catalogSvc  services.CatalogServiceProvider
	settingsSvc services.SettingsServiceProvider
	statsSvc    services.StatsServiceProvider
	hub         services.Broadcaster
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewChangeWatcher creates a new ChangeWatcher.
func NewChangeWatcher(notifier store.Notifier, catalogSvc services.CatalogServiceProvider, settingsSvc services.SettingsServiceProvider, statsSvc services.StatsServiceProvider, hub services.Broadcaster) *ChangeWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChangeWatcher{
		notifier:    notifier,
		catalogSvc:  catalogSvc,
		settingsSvc: settingsSvc,
		statsSvc:    statsSvc,
		hub:         hub,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run consumes change notifications until Stop is called.
func (w *ChangeWatcher) Run() {
	defer close(w.done)

	log.Info().Msg("Starting store change watcher...")
	for key := range w.notifier.Changes(w.ctx) {
		w.apply(w.ctx, key)
	}
	log.Info().Msg("Stopping store change watcher.")
}

// Stop halts the watcher and waits for Run to return. Run must have been
// started.
func (w *ChangeWatcher) Stop() {
	w.cancel()
	<-w.done
}

func (w *ChangeWatcher) apply(ctx context.Context, key string) {
	log.Debug().Str("key", key).Msg("Store changed elsewhere")
	switch key {
	case store.KeyServers:
		w.catalogSvc.Reload(ctx)
		w.hub.Publish(websocket.ActionServersUpdated, w.catalogSvc.ListServers(ctx))
	case store.KeyEmotes:
		w.catalogSvc.Reload(ctx)
		w.hub.Publish(websocket.ActionEmotesUpdated, w.catalogSvc.ListEmotes(ctx))
	case store.KeySettings:
		w.hub.Publish(websocket.ActionSettingsUpdated, services.PublicSettings(w.settingsSvc.GetSettings(ctx)))
	case store.KeyStats:
		w.hub.PublishTo(websocket.TopicAdmin, websocket.ActionStatsUpdated, w.statsSvc.GetStats(ctx))
	default:
		log.Warn().Str("key", key).Msg("Ignoring change to unknown store key")
	}
}
