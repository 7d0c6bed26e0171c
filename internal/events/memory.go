package events

import (
	"context"
	"sync"
)

// Event is a published message captured by Memory.
type Event struct {
	Channel string
	Payload any
}

// Memory records published events in order. Err, when set, is returned
// from every Publish call after recording.
type Memory struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

// Publish implements Publisher.
func (m *Memory) Publish(_ context.Context, channel string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Channel: channel, Payload: payload})
	return m.Err
}

// Events returns a copy of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
