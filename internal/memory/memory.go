package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/district-runner/internal/types"
)

// Event is one entry in the run log.
type Event struct {
	ID          string          `json:"id"`
	Type        types.EventType `json:"type"`
	Description string          `json:"description"`
	Detail      string          `json:"detail,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	MissionID   string          `json:"mission_id,omitempty"`
}

// Option configures a RunMemory.
type Option func(*RunMemory)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(m *RunMemory) { m.clock = clock }
}

// WithIDs overrides the event id source.
func WithIDs(newID func() string) Option {
	return func(m *RunMemory) { m.newID = newID }
}

// RunMemory is the append-only event log of a run.
type RunMemory struct {
	events []Event
	clock  func() time.Time
	newID  func() string
}

// NewRunMemory creates an empty log.
func NewRunMemory(opts ...Option) *RunMemory {
	m := &RunMemory{
		clock: time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record appends an event.
func (m *RunMemory) Record(kind types.EventType, missionID, description, detail string) {
	m.events = append(m.events, Event{
		ID:          m.newID(),
		Type:        kind,
		Description: description,
		Detail:      detail,
		Timestamp:   m.clock(),
		MissionID:   missionID,
	})
}

// Events returns a copy of the log in insertion order.
func (m *RunMemory) Events() []Event {
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// ByMission returns the events owned by one mission.
func (m *RunMemory) ByMission(missionID string) []Event {
	var out []Event
	for _, e := range m.events {
		if e.MissionID == missionID {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns the events of one type.
func (m *RunMemory) ByType(kind types.EventType) []Event {
	var out []Event
	for _, e := range m.events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (m *RunMemory) Len() int {
	return len(m.events)
}

// Clear empties the log. Only a new game does this.
func (m *RunMemory) Clear() {
	m.events = nil
}

// Restore replaces the log with previously recorded events.
func (m *RunMemory) Restore(events []Event) {
	m.events = make([]Event, len(events))
	copy(m.events, events)
}
