package main

import (
	"fmt"
	"os"

	"github.com/isdelr/emote-panel-be/internal/config"
	"github.com/isdelr/emote-panel-be/internal/database"
	"github.com/isdelr/emote-panel-be/internal/logger"
	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/isdelr/emote-panel-be/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// app bundles the services a command works with.
type app struct {
	settings *services.SettingsService
	catalog  *services.CatalogService
	stats    *services.StatsService
	dispatch *services.DispatchService
	close    func()
}

// opener builds an app for one command invocation.
type opener func() (*app, error)

// openConfigured opens the store described by the environment, the same
// one the server uses.
func openConfigured() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	st, err := store.Open(cfg.StoreDriver, db, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	a := newApp(st, services.NewEventService(db))
	a.close = func() {
		st.Close()
		db.Close()
	}
	return a, nil
}

// newApp wires services over st. Nothing is broadcast from the CLI; panels
// on a shared redis store pick changes up through the server's watcher.
func newApp(st store.Store, events services.EventServiceProvider) *app {
	catalog := services.NewCatalogService(st, nil, events, nil)
	stats := services.NewStatsService(st, nil, nil)
	return &app{
		settings: services.NewSettingsService(st, nil, events),
		catalog:  catalog,
		stats:    stats,
		dispatch: services.NewDispatchService(catalog, stats, nil, nil),
		close:    func() {},
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "emotectl",
		Short: "emotectl - operate an emote panel store",
		Long:  `emotectl reads and edits the settings, server list, emote catalog and usage stats the emote panel serves.`,
		Example: `  # Rotate the access key and list servers
  emotectl settings set-key s3cret
  emotectl servers list

  # Add a server and fire a test emote at it
  emotectl servers add --name EU --url https://eu.example.com --order 2
  emotectl dispatch --server 1 --emote 909000063 --tc 123 --uid1 42`,
		SilenceUsage: true,
	}

	root.AddCommand(newSettingsCmd(open))
	root.AddCommand(newServersCmd(open))
	root.AddCommand(newEmotesCmd(open))
	root.AddCommand(newDispatchCmd(open))
	root.AddCommand(newStatsCmd(open))
	return root
}

// withApp opens an app around fn.
func withApp(open opener, fn func(a *app) error) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func main() {
	if err := newRootCmd(openConfigured).Execute(); err != nil {
		os.Exit(1)
	}
}
