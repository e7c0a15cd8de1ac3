package monitoring

import (
	"context"
	"fmt"

	"github.com/isdelr/emote-panel-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the daily stats rollover on a cron schedule so the
// analytics chart shows a zero day even when nothing was dispatched.
type Scheduler struct {
	statsSvc services.StatsServiceProvider
	eventSvc services.EventServiceProvider
	schedule string
	cron     *cron.Cron
}

// NewScheduler creates a new scheduler. An empty schedule disables it.
func NewScheduler(schedule string, statsSvc services.StatsServiceProvider, eventSvc services.EventServiceProvider) (*Scheduler, error) {
	s := &Scheduler{statsSvc: statsSvc, eventSvc: eventSvc, schedule: schedule}
	if schedule == "" {
		return s, nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid stats rollover schedule %q: %w", schedule, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.rollover); err != nil {
		return nil, fmt.Errorf("failed to schedule stats rollover: %w", err)
	}
	return s, nil
}

// Run starts the scheduler. It returns immediately.
func (s *Scheduler) Run() {
	if s.cron == nil {
		log.Info().Msg("Stats rollover disabled")
		return
	}
	log.Info().Str("schedule", s.schedule).Msg("Starting stats rollover scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running rollover to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped stats rollover scheduler.")
}

func (s *Scheduler) rollover() {
	s.statsSvc.Rollover(context.Background())
	if s.eventSvc != nil {
		if err := s.eventSvc.CreateEvent("stats.rollover", "info", "Daily usage stats rolled over."); err != nil {
			log.Warn().Err(err).Msg("Failed to record rollover event")
		}
	}
}
