// SPDX-License-Identifier: MPL-2.0

package report

import (
	"strings"
	"sync"
)

// Recorder is a Sink that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements Sink.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Attrs = append([]any(nil), ev.Attrs...)
	r.events = append(r.events, ev)
}

// Events returns a copy of the captured events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Messages returns the messages of all message events at level.
func (r *Recorder) Messages(level Level) []string {
	var out []string
	for _, ev := range r.Events() {
		if ev.Kind == KindMessage && ev.Level == level {
			out = append(out, ev.Message)
		}
	}
	return out
}

// Contains reports whether a message event at level contains substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, msg := range r.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Count returns the number of message events at level.
func (r *Recorder) Count(level Level) int {
	return len(r.Messages(level))
}

// Sections returns the titles of all section events.
func (r *Recorder) Sections() []string {
	var out []string
	for _, ev := range r.Events() {
		if ev.Kind == KindSection {
			out = append(out, ev.Message)
		}
	}
	return out
}
