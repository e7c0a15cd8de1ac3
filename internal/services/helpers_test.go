package services

import (
	"sync"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
)

type published struct {
	topic  string
	action string
}

type fakeHub struct {
	mu       sync.Mutex
	messages []published
}

func (h *fakeHub) Publish(action string, payload interface{}) {
	h.PublishTo("all", action, payload)
}

func (h *fakeHub) PublishTo(topic, action string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, published{topic: topic, action: action})
}

func (h *fakeHub) count(action string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.messages {
		if m.action == action {
			n++
		}
	}
	return n
}

type fakeEvents struct {
	mu    sync.Mutex
	types []string
}

func (e *fakeEvents) CreateEvent(eventType, level, message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
	return nil
}

func (e *fakeEvents) GetRecentEvents(limit int) ([]models.Event, error) {
	return nil, nil
}

func (e *fakeEvents) has(eventType string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
