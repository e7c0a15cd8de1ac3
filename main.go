package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/emote-panel-be/internal/api"
	"github.com/isdelr/emote-panel-be/internal/auth"
	"github.com/isdelr/emote-panel-be/internal/config"
	"github.com/isdelr/emote-panel-be/internal/database"
	"github.com/isdelr/emote-panel-be/internal/logger"
	"github.com/isdelr/emote-panel-be/internal/monitoring"
	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/isdelr/emote-panel-be/internal/store"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the settings store
	st, err := store.Open(cfg.StoreDriver, db, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}
	defer st.Close()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	settingsService := services.NewSettingsService(st, hub, eventService)
	catalogService := services.NewCatalogService(st, hub, eventService, nil)
	statsService := services.NewStatsService(st, hub, nil)
	dispatchService := services.NewDispatchService(catalogService, statsService, hub, nil)

	// Set up and run the stats rollover scheduler
	scheduler, err := monitoring.NewScheduler(cfg.StatsCron, statsService, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up scheduler")
	}
	scheduler.Run()

	// Follow writes from other instances when the store can report them
	var watcher *monitoring.ChangeWatcher
	if notifier, ok := st.(store.Notifier); ok {
		watcher = monitoring.NewChangeWatcher(notifier, catalogService, settingsService, statsService, hub)
		go watcher.Run()
	}

	// Set up router
	sessions := auth.NewSessions(cfg.JWTSecret, cfg.Production)
	router := api.NewRouter(hub, sessions, cfg.AllowedOrigins, settingsService, catalogService, statsService, dispatchService, eventService, monitoring.NewHostStats())

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("store", cfg.StoreDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()
	if watcher != nil {
		watcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
