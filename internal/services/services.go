package services

import (
	"errors"
	"time"
)

// Broadcaster pushes live updates to connected panels.
type Broadcaster interface {
	Publish(action string, payload interface{})
	PublishTo(topic, action string, payload interface{})
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// ErrValidation marks a rejected admin draft.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the message shown inline to the admin.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func reject(msg string) error {
	return &ValidationError{Message: msg}
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(string, interface{}) {}
func (nopBroadcaster) PublishTo(string, string, interface{}) {}

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
