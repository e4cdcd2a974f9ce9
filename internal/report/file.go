// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileSink appends every event, including debug detail, as one JSON object
// per line. It keeps a record of a run after the console window is closed.
type FileSink struct {
	closer io.Closer
	logger *log.Logger
}

// OpenFileSink opens (creating if needed) the log file at path for appending.
func OpenFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("report: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: open log file: %w", err)
	}
	s := NewWriterSink(f)
	s.closer = f
	return s, nil
}

// NewWriterSink creates a JSON-lines sink over w. Close is a no-op.
func NewWriterSink(w io.Writer) *FileSink {
	return &FileSink{
		logger: log.NewWithOptions(w, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
			Formatter:       log.JSONFormatter,
		}),
	}
}

// Emit implements Sink.
func (s *FileSink) Emit(ev Event) {
	kv := make([]any, 0, len(ev.Attrs)+6)
	kv = append(kv, "kind", kindName(ev.Kind))
	if ev.Step != "" {
		kv = append(kv, "step", ev.Step)
	}
	if ev.Level == LevelSuccess {
		kv = append(kv, "outcome", "success")
	}
	kv = append(kv, ev.Attrs...)

	switch ev.Level {
	case LevelDebug:
		s.logger.Debug(ev.Message, kv...)
	case LevelWarning:
		s.logger.Warn(ev.Message, kv...)
	case LevelError:
		s.logger.Error(ev.Message, kv...)
	default:
		s.logger.Info(ev.Message, kv...)
	}
}

// Close releases the underlying file, if any.
func (s *FileSink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func kindName(k Kind) string {
	switch k {
	case KindSection:
		return "section"
	case KindSeparator:
		return "separator"
	default:
		return "message"
	}
}
