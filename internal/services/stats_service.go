package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/store"
	"github.com/isdelr/emote-panel-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// MaxStatDays is how many daily entries the usage history keeps.
const MaxStatDays = 7

// StatDateLayout formats days the way the analytics chart labels them.
const StatDateLayout = "Jan 2"

// StatsServiceProvider defines the interface for usage stats services.
type StatsServiceProvider interface {
	GetStats(ctx context.Context) []models.UsageStat
	IncrementDailyStat(ctx context.Context)
	Rollover(ctx context.Context)
}

// StatsService keeps the last seven days of dispatch counts.
type StatsService struct {
	store store.Store
	hub   Broadcaster
	now   Clock

	// Serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewStatsService creates a new StatsService.
func NewStatsService(st store.Store, hub Broadcaster, now Clock) *StatsService {
	return &StatsService{store: st, hub: orNop(hub), now: orNow(now)}
}

// GetStats returns the stored history. An absent record is seeded with the
// last seven days at zero; a failing store yields an empty history.
func (s *StatsService) GetStats(ctx context.Context) []models.UsageStat {
	stats, err := s.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch stats")
		return []models.UsageStat{}
	}
	return stats
}

// IncrementDailyStat adds one to today's count.
func (s *StatsService) IncrementDailyStat(ctx context.Context) {
	s.update(ctx, 1)
}

// Rollover makes sure today has an entry, evicting the oldest day if needed.
func (s *StatsService) Rollover(ctx context.Context) {
	s.update(ctx, 0)
}

func (s *StatsService) update(ctx context.Context, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.fetch(ctx)
	if err != nil {
		// Writing now would replace the whole history with a single day.
		log.Error().Err(err).Msg("Failed to fetch stats, skipping update")
		return
	}

	stats = RecordStat(stats, s.now().Format(StatDateLayout), delta)
	if err := store.SetJSON(ctx, s.store, store.KeyStats, stats); err != nil {
		log.Error().Err(err).Msg("Failed to save stats")
		return
	}
	s.hub.PublishTo(websocket.TopicAdmin, websocket.ActionStatsUpdated, stats)
}

func (s *StatsService) fetch(ctx context.Context) ([]models.UsageStat, error) {
	stats, err := store.GetCollection[models.UsageStat](ctx, s.store, store.KeyStats)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	stats = SeedStats(s.now())
	if err := store.SetJSON(ctx, s.store, store.KeyStats, stats); err != nil {
		log.Error().Err(err).Msg("Failed to seed stats")
	}
	return stats, nil
}

// RecordStat adds delta to the entry for date, appending a new entry when
// none matches. Dates compare as plain strings. The oldest entry is evicted
// once the history grows past MaxStatDays.
func RecordStat(stats []models.UsageStat, date string, delta int) []models.UsageStat {
	out := append([]models.UsageStat(nil), stats...)
	for i := range out {
		if out[i].Date == date {
			out[i].Count += delta
			return out
		}
	}
	out = append(out, models.UsageStat{Date: date, Count: delta})
	if len(out) > MaxStatDays {
		out = out[len(out)-MaxStatDays:]
	}
	return out
}

// SeedStats builds an empty history covering the seven days ending at now.
func SeedStats(now time.Time) []models.UsageStat {
	stats := make([]models.UsageStat, 0, MaxStatDays)
	for i := MaxStatDays - 1; i >= 0; i-- {
		stats = append(stats, models.UsageStat{Date: now.AddDate(0, 0, -i).Format(StatDateLayout)})
	}
	return stats
}
