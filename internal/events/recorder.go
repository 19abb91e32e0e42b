package events

import (
	"context"
	"sync"
)

// Recorder is an EventEmitter that keeps every event it receives.
// It is used by tests of components that emit events.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// EmitEvent implements EventEmitter.
func (r *Recorder) EmitEvent(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Types returns the types of the recorded events in emission order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(eventType string) []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
