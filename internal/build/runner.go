// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Invocation is one external process to run to completion.
	Invocation struct {
		Name string
		Args []string
		Dir  string
		// Env is appended to the current process environment.
		Env    []string
		Stdout io.Writer
		Stderr io.Writer
	}

	// CommandRunner runs an Invocation and blocks until it exits.
	//
	// The returned error is non-nil only when the process could not be
	// started or waited on; a non-zero exit is reported through the code.
	CommandRunner interface {
		Run(ctx context.Context, inv Invocation) (types.ExitCode, error)
	}

	// ExecRunner runs invocations as child processes.
	ExecRunner struct{}

	// DryRunRunner logs each invocation and reports success without
	// spawning anything.
	DryRunRunner struct {
		Reporter *report.Reporter
	}

	// ScriptedRunner returns preset results and records every invocation.
	// Results are looked up by matching any argument of the invocation
	// against the keys of ExitCodes and SpawnErrors.
	ScriptedRunner struct {
		ExitCodes   map[string]types.ExitCode
		SpawnErrors map[string]error
		Default     types.ExitCode

		mu    sync.Mutex
		calls []Invocation
	}
)

// String renders the invocation as a shell-quoted command line.
func (inv Invocation) String() string {
	words := make([]string, 0, len(inv.Args)+1)
	for _, w := range append([]string{inv.Name}, inv.Args...) {
		words = append(words, quote(w))
	}
	return strings.Join(words, " ")
}

func quote(word string) string {
	q, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		return `"` + word + `"`
	}
	return q
}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err == nil {
		return types.ExitSuccess, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode()), nil
	}
	return types.ExitSpawnFailure, err
}

// Run implements CommandRunner.
func (d DryRunRunner) Run(_ context.Context, inv Invocation) (types.ExitCode, error) {
	r := d.Reporter
	if r == nil {
		r = report.New(nil)
	}
	r.Info("Dry run, not executing", "command", inv.String())
	return types.ExitSuccess, nil
}

// Run implements CommandRunner.
func (s *ScriptedRunner) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	s.mu.Lock()
	s.calls = append(s.calls, inv)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return types.ExitSpawnFailure, err
	}
	for _, arg := range inv.Args {
		if err, ok := s.SpawnErrors[arg]; ok {
			return types.ExitSpawnFailure, err
		}
		if code, ok := s.ExitCodes[arg]; ok {
			return code, nil
		}
	}
	return s.Default, nil
}

// Calls returns a copy of the recorded invocations in call order.
func (s *ScriptedRunner) Calls() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Invocation(nil), s.calls...)
}
