// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"io"

	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/pkg/types"
)

const (
	DefaultTool          = "dotnet"
	DefaultConfiguration = "Release"
	DefaultFramework     = "net5.0"
)

type (
	// Settings selects the build tool and what it produces.
	Settings struct {
		Tool          string
		Configuration string
		Framework     string
		// Env holds extra KEY=VALUE pairs for every invocation.
		Env []string
	}

	// Target is one project folder to publish into an output folder.
	Target struct {
		Name          string
		ProjectFolder string
		OutputFolder  string
	}

	// Outcome is the result of one publish invocation.
	Outcome struct {
		Name          string
		ProjectFolder string
		OutputFolder  string
		ExitCode      types.ExitCode
		Succeeded     bool
		// Err is set when the tool could not be started.
		Err error
	}

	// Publisher runs "<tool> publish" for targets.
	Publisher struct {
		runner   CommandRunner
		settings Settings
		reporter *report.Reporter
		stdout   io.Writer
		stderr   io.Writer
	}

	// PublisherOption configures a Publisher.
	PublisherOption func(*Publisher)
)

// WithPublishReporter sets where build progress is emitted.
func WithPublishReporter(r *report.Reporter) PublisherOption {
	return func(p *Publisher) {
		p.reporter = r
	}
}

// WithOutput forwards the build tool's output streams.
func WithOutput(stdout, stderr io.Writer) PublisherOption {
	return func(p *Publisher) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// NewPublisher creates a Publisher. Empty settings fields take the
// package defaults.
func NewPublisher(runner CommandRunner, settings Settings, opts ...PublisherOption) *Publisher {
	if settings.Tool == "" {
		settings.Tool = DefaultTool
	}
	if settings.Configuration == "" {
		settings.Configuration = DefaultConfiguration
	}
	if settings.Framework == "" {
		settings.Framework = DefaultFramework
	}
	p := &Publisher{runner: runner, settings: settings, stdout: io.Discard, stderr: io.Discard}
	for _, opt := range opts {
		opt(p)
	}
	if p.reporter == nil {
		p.reporter = report.New(nil)
	}
	return p
}

// Settings returns the effective settings.
func (p *Publisher) Settings() Settings { return p.settings }

// Command returns the invocation that publishes t.
func (p *Publisher) Command(t Target) Invocation {
	return Invocation{
		Name: p.settings.Tool,
		Args: []string{
			"publish", t.ProjectFolder,
			"--configuration", p.settings.Configuration,
			"--framework", p.settings.Framework,
			"--output", t.OutputFolder,
		},
		Env:    p.settings.Env,
		Stdout: p.stdout,
		Stderr: p.stderr,
	}
}

// Publish builds t and blocks until the tool exits. It never aborts the
// run; callers decide how a failed Outcome is reported.
func (p *Publisher) Publish(ctx context.Context, t Target) Outcome {
	inv := p.Command(t)
	p.reporter.Debug("invoking build tool", "command", inv.String())

	code, err := p.runner.Run(ctx, inv)
	out := Outcome{
		Name:          t.Name,
		ProjectFolder: t.ProjectFolder,
		OutputFolder:  t.OutputFolder,
		ExitCode:      code,
		Err:           err,
	}
	if err != nil {
		out.ExitCode = types.ExitSpawnFailure
		return out
	}
	out.Succeeded = code.IsSuccess()
	return out
}

// PublishModules builds each module independently. A failed module is
// reported as a warning and does not stop the others.
func (p *Publisher) PublishModules(ctx context.Context, modules []Module) []Outcome {
	outcomes := make([]Outcome, 0, len(modules))
	for _, m := range modules {
		if ctx.Err() != nil {
			break
		}
		log := p.reporter.WithStep("module")
		out := p.Publish(ctx, m.Target())
		outcomes = append(outcomes, out)
		if out.Succeeded {
			log.Success(fmt.Sprintf("Module %s was built successfully", m.Name), "module", m.Name)
			continue
		}
		log.Warn(fmt.Sprintf("Module %s build failed", m.Name), out.failureAttrs()...)
	}
	return outcomes
}

func (o Outcome) failureAttrs() []any {
	attrs := []any{"module", o.Name, "exit_code", int(o.ExitCode)}
	if o.Err != nil {
		attrs = append(attrs, "error", o.Err)
	}
	return attrs
}

// Describe returns a short human-readable status such as "exit 1".
func (o Outcome) Describe() string {
	switch {
	case o.Err != nil:
		return "not started: " + o.Err.Error()
	case o.Succeeded:
		return "ok"
	default:
		return "exit " + o.ExitCode.String()
	}
}
