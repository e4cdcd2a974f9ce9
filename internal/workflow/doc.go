// SPDX-License-Identifier: MPL-2.0

// Package workflow drives one install-and-compile run over a project.
//
// The Orchestrator walks a fixed sequence of states: validate the project,
// optionally install the plugin, validate the plugin, optionally install the
// managed and game sources and build the runtime and framework, then build
// every game module. Only the two validations can fail a run; everything
// else is reported and the run moves on.
package workflow
