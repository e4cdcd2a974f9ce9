// SPDX-License-Identifier: MPL-2.0

// Package report carries the installer's structured progress events.
//
// Workflow code never writes to the terminal directly. It emits Events
// (info, success, warning, error, plus section headers and separators)
// through a Reporter into an injected Sink. The CLI wires a ConsoleSink
// backed by charmbracelet/log, optionally fanned out to a JSON FileSink;
// tests wire a Recorder and assert on the captured events.
package report
