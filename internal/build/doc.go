// SPDX-License-Identifier: MPL-2.0

// Package build publishes managed projects through an external build tool.
//
// Publisher composes the publish command line and hands it to a
// CommandRunner. ExecRunner spawns the real process, ScriptedRunner answers
// with canned exit codes and DryRunRunner only logs what would run.
// EnumerateModules lists the game modules under the project source folder.
package build
