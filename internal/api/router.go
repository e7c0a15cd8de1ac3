package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/emote-panel-be/internal/api/handlers"
	"github.com/isdelr/emote-panel-be/internal/auth"
	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/isdelr/emote-panel-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	sessions *auth.Sessions,
	allowedOrigins []string,
	settingsService services.SettingsServiceProvider,
	catalogService services.CatalogServiceProvider,
	statsService services.StatsServiceProvider,
	dispatchService services.DispatchServiceProvider,
	eventService services.EventServiceProvider,
	hostStats handlers.HostStatsProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Session cookies need credentials, so origins must be listed explicitly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(sessions.Middleware)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(settingsService, eventService, sessions)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	statsHandler := handlers.NewStatsHandler(statsService, hostStats)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, dispatchService, allowedOrigins)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", authHandler.Session)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/user", authHandler.UserLogin)
			r.Post("/admin", authHandler.AdminLogin)
			r.Post("/logout", authHandler.Logout)
		})

		// User panel; admins may use it too.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireView(auth.ViewUser, auth.ViewAdmin))

			r.Get("/ws", wsHandler.Serve)
			r.Get("/servers", catalogHandler.ListServers)
			r.Get("/emotes", catalogHandler.ListEmotes)
			r.Post("/dispatch", dispatchHandler.Send)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireView(auth.ViewAdmin))

			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)

			r.Post("/servers", catalogHandler.CreateServer)
			r.Delete("/servers/{id}", catalogHandler.DeleteServer)
			r.Post("/emotes", catalogHandler.CreateEmote)
			r.Delete("/emotes/{id}", catalogHandler.DeleteEmote)
			r.Post("/reload", catalogHandler.Reload)

			r.Get("/stats", statsHandler.GetUsage)
			r.Get("/system", statsHandler.GetSystem)
			r.Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}
