package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/store"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultServers seeds the server list on first read.
func DefaultServers() []models.Server {
	return []models.Server{
		{ID: "1", Name: "INDIA", APIURL: "https://najmi-emote-api-1.onrender.com", Order: 1},
	}
}

// DefaultEmotes seeds the emote catalog on first read.
func DefaultEmotes() []models.Emote {
	return []models.Emote{
		{ID: "1", Category: "Funny", ImageURL: "https://picsum.photos/id/1011/100/100", EmoteID: "lol_emote_id"},
		{ID: "2", Category: "Greeting", ImageURL: "https://picsum.photos/id/1025/100/100", EmoteID: "hello_emote_id"},
		{ID: "3", Category: "Dance", ImageURL: "https://picsum.photos/id/100/100/100", EmoteID: "dab_emote_id"},
	}
}

// CatalogServiceProvider defines the interface for catalog services.
type CatalogServiceProvider interface {
	ListServers(ctx context.Context) []models.Server
	ListEmotes(ctx context.Context) []models.Emote
	GetServer(ctx context.Context, id string) (models.Server, bool)
	AddServer(ctx context.Context, draft models.ServerDraft) (models.Server, error)
	DeleteServer(ctx context.Context, id string) bool
	AddEmote(ctx context.Context, draft models.EmoteDraft) (models.Emote, error)
	DeleteEmote(ctx context.Context, id string) bool
	Reload(ctx context.Context)
}

// CatalogService manages the server list and emote catalog. It keeps a
// working copy of each collection; every mutation changes the working copy
// first and then overwrites the whole collection in the store. A failed
// write is logged and the working copy is kept, so the two can diverge.
type CatalogService struct {
	store  store.Store
	hub    Broadcaster
	events EventServiceProvider
	now    Clock

	mu            sync.Mutex
	servers       []models.Server
	emotes        []models.Emote
	serversLoaded bool
	emotesLoaded  bool
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(st store.Store, hub Broadcaster, events EventServiceProvider, now Clock) *CatalogService {
	return &CatalogService{store: st, hub: orNop(hub), events: events, now: orNow(now)}
}

// ListServers refreshes the server working copy from the store and returns it.
func (s *CatalogService) ListServers(ctx context.Context) []models.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadServers(ctx)
	return append([]models.Server(nil), s.servers...)
}

// ListEmotes refreshes the emote working copy from the store and returns it.
func (s *CatalogService) ListEmotes(ctx context.Context) []models.Emote {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadEmotes(ctx)
	return append([]models.Emote(nil), s.emotes...)
}

// Reload refreshes both working copies from the store.
func (s *CatalogService) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadServers(ctx)
	s.loadEmotes(ctx)
}

// GetServer looks id up in the current server working copy.
func (s *CatalogService) GetServer(ctx context.Context, id string) (models.Server, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.serversLoaded {
		s.loadServers(ctx)
	}
	for _, srv := range s.servers {
		if srv.ID == id {
			return srv, true
		}
	}
	return models.Server{}, false
}

// AddServer admits a new server and re-sorts the list by order. Servers
// with equal order keep their insertion order.
func (s *CatalogService) AddServer(ctx context.Context, draft models.ServerDraft) (models.Server, error) {
	if draft.Name == "" || draft.APIURL == "" {
		return models.Server{}, reject("Please provide a server name and API URL")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.serversLoaded {
		s.loadServers(ctx)
	}

	server := models.Server{
		ID:      s.newID(func(id string) bool { return indexOfServer(s.servers, id) >= 0 }),
		Name:    draft.Name,
		APIURL:  draft.APIURL,
		Command: draft.Command,
	}
	if draft.Order != nil {
		server.Order = *draft.Order
	}
	if server.Command == "" {
		server.Command = models.DefaultCommand
	}

	updated := append(append([]models.Server(nil), s.servers...), server)
	sortServers(updated)
	s.servers = updated

	s.persistServers(ctx)
	recordEvent(s.events, "server.create", "info", fmt.Sprintf("Server '%s' added.", server.Name))
	return server, nil
}

// DeleteServer removes id from the server list. Deleting an unknown id
// changes nothing and writes nothing.
func (s *CatalogService) DeleteServer(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.serversLoaded {
		s.loadServers(ctx)
	}

	idx := indexOfServer(s.servers, id)
	if idx < 0 {
		return false
	}
	removed := s.servers[idx]
	updated := make([]models.Server, 0, len(s.servers)-1)
	updated = append(updated, s.servers[:idx]...)
	updated = append(updated, s.servers[idx+1:]...)
	s.servers = updated

	s.persistServers(ctx)
	recordEvent(s.events, "server.delete", "warn", fmt.Sprintf("Server '%s' was deleted.", removed.Name))
	return true
}

// AddEmote admits a new emote at the end of the catalog. A missing emote id
// is derived from the image file name.
func (s *CatalogService) AddEmote(ctx context.Context, draft models.EmoteDraft) (models.Emote, error) {
	emoteID := draft.EmoteID
	if emoteID == "" && draft.ImageURL != "" {
		emoteID = DeriveEmoteID(draft.ImageURL, s.now())
	}

	if draft.ImageURL == "" || draft.Category == "" {
		return models.Emote{}, reject("Please provide Image URL and Category")
	}
	if emoteID == "" {
		return models.Emote{}, reject("Could not generate Emote ID. Please enter one.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.emotesLoaded {
		s.loadEmotes(ctx)
	}

	emote := models.Emote{
		ID:       s.newID(func(id string) bool { return indexOfEmote(s.emotes, id) >= 0 }),
		Category: draft.Category,
		ImageURL: draft.ImageURL,
		EmoteID:  emoteID,
	}
	s.emotes = append(append([]models.Emote(nil), s.emotes...), emote)

	s.persistEmotes(ctx)
	recordEvent(s.events, "emote.create", "info", fmt.Sprintf("Emote '%s' added to %s.", emote.EmoteID, emote.Category))
	return emote, nil
}

// DeleteEmote removes id from the catalog. Deleting an unknown id changes
// nothing and writes nothing.
func (s *CatalogService) DeleteEmote(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.emotesLoaded {
		s.loadEmotes(ctx)
	}

	idx := indexOfEmote(s.emotes, id)
	if idx < 0 {
		return false
	}
	removed := s.emotes[idx]
	updated := make([]models.Emote, 0, len(s.emotes)-1)
	updated = append(updated, s.emotes[:idx]...)
	updated = append(updated, s.emotes[idx+1:]...)
	s.emotes = updated

	s.persistEmotes(ctx)
	recordEvent(s.events, "emote.delete", "warn", fmt.Sprintf("Emote '%s' was deleted.", removed.EmoteID))
	return true
}

// DeriveEmoteID takes the image file name up to its first dot. When that
// leaves nothing, a time-based id is synthesized instead.
func DeriveEmoteID(imageURL string, now time.Time) string {
	segment := imageURL[strings.LastIndex(imageURL, "/")+1:]
	if name, _, _ := strings.Cut(segment, "."); name != "" {
		return name
	}
	return "emote_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// loadServers replaces the server working copy with the stored list, sorted
// by order. Must be called with mu held.
func (s *CatalogService) loadServers(ctx context.Context) {
	servers, err := store.GetCollection[models.Server](ctx, s.store, store.KeyServers)
	switch {
	case err == nil:
		sortServers(servers)
	case errors.Is(err, store.ErrNotFound):
		servers = DefaultServers()
		if err := store.SetJSON(ctx, s.store, store.KeyServers, servers); err != nil {
			log.Error().Err(err).Msg("Failed to seed default servers")
		}
	default:
		log.Error().Err(err).Msg("Failed to fetch servers, using defaults")
		servers = DefaultServers()
	}
	s.servers = servers
	s.serversLoaded = true
}

// loadEmotes replaces the emote working copy with the stored catalog in
// store order. Must be called with mu held.
func (s *CatalogService) loadEmotes(ctx context.Context) {
	emotes, err := store.GetCollection[models.Emote](ctx, s.store, store.KeyEmotes)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		emotes = DefaultEmotes()
		if err := store.SetJSON(ctx, s.store, store.KeyEmotes, emotes); err != nil {
			log.Error().Err(err).Msg("Failed to seed default emotes")
		}
	default:
		log.Error().Err(err).Msg("Failed to fetch emotes, using defaults")
		emotes = DefaultEmotes()
	}
	s.emotes = emotes
	s.emotesLoaded = true
}

func (s *CatalogService) persistServers(ctx context.Context) {
	if err := store.SetJSON(ctx, s.store, store.KeyServers, s.servers); err != nil {
		log.Error().Err(err).Int("count", len(s.servers)).Msg("Failed to save servers")
		recordEvent(s.events, "servers.save.fail", "error", "Saving servers failed: "+err.Error())
		return
	}
	s.hub.Publish(websocket.ActionServersUpdated, s.servers)
}

func (s *CatalogService) persistEmotes(ctx context.Context) {
	if err := store.SetJSON(ctx, s.store, store.KeyEmotes, s.emotes); err != nil {
		log.Error().Err(err).Int("count", len(s.emotes)).Msg("Failed to save emotes")
		recordEvent(s.events, "emotes.save.fail", "error", "Saving emotes failed: "+err.Error())
		return
	}
	s.hub.Publish(websocket.ActionEmotesUpdated, s.emotes)
}

// newID returns the current millisecond timestamp, bumped past any id the
// collection already holds.
func (s *CatalogService) newID(taken func(string) bool) string {
	n := s.now().UnixMilli()
	id := strconv.FormatInt(n, 10)
	for taken(id) {
		n++
		id = strconv.FormatInt(n, 10)
	}
	return id
}

func sortServers(servers []models.Server) {
	sort.SliceStable(servers, func(i, j int) bool { return servers[i].Order < servers[j].Order })
}

func indexOfServer(servers []models.Server, id string) int {
	for i, srv := range servers {
		if srv.ID == id {
			return i
		}
	}
	return -1
}

func indexOfEmote(emotes []models.Emote, id string) int {
	for i, e := range emotes {
		if e.ID == id {
			return i
		}
	}
	return -1
}
