// SPDX-License-Identifier: MPL-2.0

package report

import "time"

// Reporter emits events into a Sink. A Reporter is cheap to copy; WithStep
// returns a child that tags every event with a workflow step name.
type Reporter struct {
	sink Sink
	step string
	now  func() time.Time
}

// Discard is a Sink that drops every event.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Emit(Event) {}

// New creates a Reporter writing to sink. A nil sink discards events.
func New(sink Sink) *Reporter {
	if sink == nil {
		sink = Discard
	}
	return &Reporter{sink: sink, now: time.Now}
}

// WithStep returns a Reporter tagging events with step.
func (r *Reporter) WithStep(step string) *Reporter {
	child := *r
	child.step = step
	return &child
}

// Step returns the step tag of this Reporter.
func (r *Reporter) Step() string { return r.step }

// Debug emits verbose-only detail.
func (r *Reporter) Debug(msg string, kv ...any) { r.emit(LevelDebug, KindMessage, msg, kv) }

// Info emits ordinary progress.
func (r *Reporter) Info(msg string, kv ...any) { r.emit(LevelInfo, KindMessage, msg, kv) }

// Success emits a completed-step message.
func (r *Reporter) Success(msg string, kv ...any) { r.emit(LevelSuccess, KindMessage, msg, kv) }

// Warn emits a recoverable failure.
func (r *Reporter) Warn(msg string, kv ...any) { r.emit(LevelWarning, KindMessage, msg, kv) }

// Error emits a failure reported as an error.
func (r *Reporter) Error(msg string, kv ...any) { r.emit(LevelError, KindMessage, msg, kv) }

// Section opens a titled workflow section.
func (r *Reporter) Section(title string) { r.emit(LevelInfo, KindSection, title, nil) }

// Separator closes the current section.
func (r *Reporter) Separator() { r.emit(LevelInfo, KindSeparator, "", nil) }

func (r *Reporter) emit(level Level, kind Kind, msg string, kv []any) {
	r.sink.Emit(Event{
		Time:    r.now(),
		Level:   level,
		Kind:    kind,
		Step:    r.step,
		Message: msg,
		Attrs:   kv,
	})
}
