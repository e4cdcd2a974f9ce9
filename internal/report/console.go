// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const separatorWidth = 3

type (
	// ConsoleOptions configures a ConsoleSink.
	ConsoleOptions struct {
		// Verbose shows debug events and tags events with their step.
		Verbose bool
		// ReportTimestamp prefixes each line with the time of day.
		ReportTimestamp bool
	}

	// ConsoleSink renders events for a human on a terminal.
	ConsoleSink struct {
		w       io.Writer
		opts    ConsoleOptions
		logger  *log.Logger
		success *log.Logger
	}
)

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer, opts ConsoleOptions) *ConsoleSink {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logOpts := log.Options{
		Level:           level,
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      "15:04:05",
	}

	logger := log.NewWithOptions(w, logOpts)
	logger.SetStyles(levelStyles(false))

	success := log.NewWithOptions(w, logOpts)
	success.SetStyles(levelStyles(true))

	return &ConsoleSink{w: w, opts: opts, logger: logger, success: success}
}

// Emit implements Sink.
func (s *ConsoleSink) Emit(ev Event) {
	switch ev.Kind {
	case KindSection:
		_, _ = fmt.Fprintln(s.w, sectionStyle.Render("*** "+strings.ToUpper(ev.Message)+" ***"))
		return
	case KindSeparator:
		_, _ = fmt.Fprintln(s.w, separatorStyle.Render(strings.Repeat("*", separatorWidth)))
		return
	}

	kv := ev.Attrs
	if s.opts.Verbose && ev.Step != "" {
		kv = append([]any{"step", ev.Step}, kv...)
	}

	switch ev.Level {
	case LevelDebug:
		s.logger.Debug(ev.Message, kv...)
	case LevelSuccess:
		s.success.Info(ev.Message, kv...)
	case LevelWarning:
		s.logger.Warn(ev.Message, kv...)
	case LevelError:
		s.logger.Error(ev.Message, kv...)
	default:
		s.logger.Info(ev.Message, kv...)
	}
}
