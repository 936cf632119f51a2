package output

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind identifies a registry or content event
type EventKind string

const (
	EventChannelAdded      EventKind = "channel_added"
	EventChannelDeleted    EventKind = "channel_deleted"
	EventSelectionChanged  EventKind = "selection_changed"
	EventContentChanged    EventKind = "content_changed"
	EventVisibilityChanged EventKind = "visibility_changed"
	EventLockChanged       EventKind = "lock_changed"
)

// Event carries a single registry or content notification.
// Channel is empty for a SelectionChanged event with no selection.
type Event struct {
	Kind          EventKind      `json:"kind"`
	Channel       string         `json:"channel,omitempty"`
	Visible       bool           `json:"visible,omitempty"`
	Locked        bool           `json:"locked,omitempty"`
	PreserveFocus bool           `json:"preserve_focus,omitempty"`
	Change        *ContentChange `json:"change,omitempty"`
}

// EventSink receives events from an Emitter
type EventSink func(Event)

// Emitter fans events out to subscribed sinks. Subscribe returns a token
// used to unsubscribe; there is no implicit disposal collection.
type Emitter struct {
	mu    sync.RWMutex
	sinks map[string]EventSink
}

// NewEmitter creates an empty emitter
func NewEmitter() *Emitter {
	return &Emitter{sinks: make(map[string]EventSink)}
}

// Subscribe registers a sink and returns its unsubscribe token
func (e *Emitter) Subscribe(sink EventSink) string {
	token := uuid.New().String()
	e.mu.Lock()
	e.sinks[token] = sink
	e.mu.Unlock()
	return token
}

// Unsubscribe removes the sink registered under token
func (e *Emitter) Unsubscribe(token string) {
	e.mu.Lock()
	delete(e.sinks, token)
	e.mu.Unlock()
}

// Emit delivers ev to all current sinks
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	sinks := make([]EventSink, 0, len(e.sinks))
	for _, s := range e.sinks {
		sinks = append(sinks, s)
	}
	e.mu.RUnlock()

	for _, s := range sinks {
		s(ev)
	}
}
