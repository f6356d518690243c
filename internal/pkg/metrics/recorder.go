package metrics

import "sync"

// Event is one recorded stage emission.
type Event struct {
	Stage  string
	Fields Fields
}

// Recorder is an in-memory Emitter for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(stage string, fields Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.events = append(r.events, Event{Stage: stage, Fields: copied})
}

// Events returns a snapshot of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Stages returns the emitted stage names in order.
func (r *Recorder) Stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Stage
	}
	return out
}

// Find returns the first event for the given stage, or nil.
func (r *Recorder) Find(stage string) *Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].Stage == stage {
			return &r.events[i]
		}
	}
	return nil
}
