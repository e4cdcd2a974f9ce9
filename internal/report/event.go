// SPDX-License-Identifier: MPL-2.0

package report

import "time"

const (
	// LevelDebug is detail only shown in verbose mode.
	LevelDebug Level = iota
	// LevelInfo is ordinary progress.
	LevelInfo
	// LevelSuccess marks a completed step.
	LevelSuccess
	// LevelWarning is a recoverable failure; the run continues.
	LevelWarning
	// LevelError is a failure reported as an error. Whether the run aborts
	// is decided by the workflow, not by the level.
	LevelError
)

const (
	// KindMessage is a plain leveled message.
	KindMessage Kind = iota
	// KindSection opens a new workflow section (e.g. "VALIDATE PROJECT").
	KindSection
	// KindSeparator visually closes a section.
	KindSeparator
)

type (
	// Level is the severity of an Event.
	Level int

	// Kind distinguishes messages from layout events.
	Kind int

	// Event is one structured progress record.
	Event struct {
		Time    time.Time
		Level   Level
		Kind    Kind
		Step    string
		Message string
		// Attrs holds alternating key/value pairs.
		Attrs []any
	}

	// Sink receives events. Implementations must not retain Attrs beyond
	// the call unless they copy it.
	Sink interface {
		Emit(Event)
	}

	// MultiSink fans each event out to every sink in order.
	MultiSink []Sink
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Attr returns the value for key in the event's attributes.
func (e Event) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(e.Attrs); i += 2 {
		if k, ok := e.Attrs[i].(string); ok && k == key {
			return e.Attrs[i+1], true
		}
	}
	return nil, false
}

// Emit implements Sink.
func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}
