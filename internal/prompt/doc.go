// SPDX-License-Identifier: MPL-2.0

// Package prompt asks the user yes/no questions between install steps.
//
// A Gate answers Questions. TerminalGate reads a single keystroke from an
// interactive terminal and falls back to line input when stdin is piped.
// ScriptedGate answers from preset values and is used for unattended runs
// and tests.
package prompt
