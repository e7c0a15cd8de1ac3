package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/isdelr/emote-panel-be/internal/store"
)

func TestRecordStatSameDay(t *testing.T) {
	var stats []models.UsageStat
	stats = RecordStat(stats, "Jan 5", 1)
	stats = RecordStat(stats, "Jan 5", 1)

	if len(stats) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(stats))
	}
	if stats[0].Count != 2 {
		t.Errorf("expected count 2, got %d", stats[0].Count)
	}
}

func TestRecordStatEvictsOldest(t *testing.T) {
	var stats []models.UsageStat
	for day := 1; day <= 8; day++ {
		stats = RecordStat(stats, fmt.Sprintf("Jan %d", day), 1)
	}

	if len(stats) != MaxStatDays {
		t.Fatalf("expected %d entries, got %d", MaxStatDays, len(stats))
	}
	if stats[0].Date != "Jan 2" || stats[6].Date != "Jan 8" {
		t.Errorf("expected Jan 2..Jan 8, got %s..%s", stats[0].Date, stats[6].Date)
	}
}

func TestSeedStats(t *testing.T) {
	stats := SeedStats(time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC))
	if len(stats) != MaxStatDays {
		t.Fatalf("expected %d entries, got %d", MaxStatDays, len(stats))
	}
	if stats[0].Date != "Feb 24" || stats[6].Date != "Mar 2" {
		t.Errorf("unexpected range %s..%s", stats[0].Date, stats[6].Date)
	}
	for _, s := range stats {
		if s.Count != 0 {
			t.Errorf("expected zero seed counts, got %+v", s)
		}
	}
}

func TestIncrementDailyStat(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	hub := &fakeHub{}
	s := NewStatsService(m, hub, fixedClock(testNow))

	s.IncrementDailyStat(ctx)
	s.IncrementDailyStat(ctx)

	stats := s.GetStats(ctx)
	if len(stats) != MaxStatDays {
		t.Fatalf("expected seeded history of %d days, got %d", MaxStatDays, len(stats))
	}
	today := stats[len(stats)-1]
	if today.Date != "Jan 5" || today.Count != 2 {
		t.Errorf("expected Jan 5 with 2, got %+v", today)
	}
}

func TestRolloverAddsNewDay(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	day := testNow
	s := NewStatsService(m, nil, func() time.Time { return day })

	s.IncrementDailyStat(ctx)
	day = day.AddDate(0, 0, 1)
	s.Rollover(ctx)

	stats := s.GetStats(ctx)
	if len(stats) != MaxStatDays {
		t.Fatalf("expected %d entries, got %d", MaxStatDays, len(stats))
	}
	last := stats[len(stats)-1]
	if last.Date != "Jan 6" || last.Count != 0 {
		t.Errorf("expected empty Jan 6 entry, got %+v", last)
	}
	if stats[len(stats)-2].Count != 1 {
		t.Errorf("expected Jan 5 to keep its count, got %+v", stats[len(stats)-2])
	}
}

func TestStatsReadFailure(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	m.GetErr = errors.New("unreachable")
	s := NewStatsService(m, nil, fixedClock(testNow))

	if got := s.GetStats(ctx); len(got) != 0 {
		t.Errorf("expected empty stats, got %+v", got)
	}
	s.IncrementDailyStat(ctx)
	if n := m.Writes(store.KeyStats); n != 0 {
		t.Errorf("expected no write after failed read, got %d", n)
	}
}
