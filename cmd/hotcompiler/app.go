// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/unrealclr/hotcompiler/internal/build"
	"github.com/unrealclr/hotcompiler/internal/config"
	"github.com/unrealclr/hotcompiler/internal/fsync"
	"github.com/unrealclr/hotcompiler/internal/issue"
	"github.com/unrealclr/hotcompiler/internal/layout"
	"github.com/unrealclr/hotcompiler/internal/prompt"
	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/internal/validate"
	"github.com/unrealclr/hotcompiler/internal/workflow"
	"github.com/unrealclr/hotcompiler/pkg/fspath"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/afero"
)

const pauseMessage = "Press any key to exit..."

type (
	// ConfigProvider loads configuration from explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Dependencies holds the collaborators of App. Zero fields get the
	// production implementation.
	Dependencies struct {
		Config ConfigProvider
		Fs     afero.Fs
		Runner build.CommandRunner
		// Gate answers questions that have no preset. Nil selects a
		// TerminalGate over Stdin and Stdout.
		Gate   prompt.Gate
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// WorkDir returns the directory the tool was started from.
		WorkDir func() (string, error)
	}

	// App is the composition root shared by all commands.
	App struct {
		Config  ConfigProvider
		Fs      afero.Fs
		Runner  build.CommandRunner
		Gate    prompt.Gate
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		workDir func() (string, error)
	}

	// InstallRequest carries the root command flags.
	InstallRequest struct {
		// Path is the optional positional argument.
		Path           string
		Reference      string
		ConfigPath     string
		LogFile        string
		Answers        []string
		DryRun         bool
		NonInteractive bool
		NoPause        bool
		Verbose        bool
	}
)

// NewApp creates an App, filling zero Dependencies with defaults.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Runner == nil {
		deps.Runner = build.ExecRunner{}
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.WorkDir == nil {
		deps.WorkDir = os.Getwd
	}
	return &App{
		Config:  deps.Config,
		Fs:      deps.Fs,
		Runner:  deps.Runner,
		Gate:    deps.Gate,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		workDir: deps.WorkDir,
	}
}

// Install validates the project, installs what the user confirms and
// compiles the managed modules. The returned error is an *ExitError set
// only when the run could not start; a failed run is reported through the
// Result.
func (a *App) Install(ctx context.Context, req InstallRequest) (workflow.Result, error) {
	cfg, err := a.loadConfig(ctx, req.ConfigPath)
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		fmt.Fprintln(a.stderr, formatErrorForDisplay(err, req.Verbose))
		return a.abort(ctx, req, config.DefaultConfig(), err)
	}

	answers, err := presetAnswers(cfg.Answers, req.Answers)
	if err != nil {
		fmt.Fprintln(a.stderr, formatErrorForDisplay(err, req.Verbose))
		return a.abort(ctx, req, cfg, err)
	}

	wd, err := a.workDir()
	if err != nil {
		return a.abort(ctx, req, cfg, fmt.Errorf("resolve working directory: %w", err))
	}
	workDir := types.FilesystemPath(wd)
	root := layout.ResolveRoot(a.Fs, req.Path, workDir)
	project := layout.Resolve(root, cfg.PluginName)
	reference := layout.ResolveReference(referenceRoot(req.Reference, cfg.ReferenceRoot, workDir))

	sink, closeSink := a.openSinks(req.Verbose, req.LogFile, cfg)
	defer closeSink()
	reporter := report.New(sink)

	gate := a.gate(req, answers)

	runner := a.Runner
	if req.DryRun {
		runner = build.DryRunRunner{Reporter: reporter.WithStep("build")}
	}

	settings := a.buildSettings(cfg, root, reporter)

	orchestrator := workflow.New(project, reference, workflow.Dependencies{
		Fs:   a.Fs,
		Gate: gate,
		Syncer: fsync.New(a.Fs,
			fsync.WithReporter(reporter.WithStep("sync")),
			fsync.WithDryRun(req.DryRun)),
		Publisher: build.NewPublisher(runner, settings,
			build.WithPublishReporter(reporter.WithStep("build")),
			build.WithOutput(a.stdout, a.stderr)),
		Reporter: reporter,
	})
	res := orchestrator.Run(ctx)

	if summary := workflow.Summary(res); summary != "" {
		fmt.Fprintln(a.stdout, summary)
	}
	a.explain(res, cfg.UI.ColorScheme)

	if shouldPause(cfg, req) && !workflow.IsAborted(res.Err) {
		if err := gate.Pause(ctx, pauseMessage); err != nil && !errors.Is(err, io.EOF) {
			reporter.Debug("Pause ended early", "error", err)
		}
	}
	return res, nil
}

// abort ends a run that failed before the workflow started. It keeps the
// final pause and reports the fatal exit code through an ExitError.
func (a *App) abort(ctx context.Context, req InstallRequest, cfg *config.Config, err error) (workflow.Result, error) {
	if shouldPause(cfg, req) {
		_ = a.gate(req, nil).Pause(ctx, pauseMessage)
	}
	res := workflow.Result{State: workflow.StateFailed, ExitCode: types.ExitFatal, Err: err}
	return res, &ExitError{Code: types.ExitFatal, Err: err}
}

func shouldPause(cfg *config.Config, req InstallRequest) bool {
	return cfg.UI.PauseOnExit && !req.NoPause && !req.NonInteractive
}

func (a *App) loadConfig(ctx context.Context, path string) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
}

// buildSettings maps the build config to publisher settings, reading the
// project .env file when one is configured.
func (a *App) buildSettings(cfg *config.Config, root types.FilesystemPath, reporter *report.Reporter) build.Settings {
	settings := build.Settings{
		Tool:          cfg.Build.Tool,
		Configuration: cfg.Build.Configuration,
		Framework:     cfg.Build.Framework,
	}
	if cfg.Build.EnvFile == "" {
		return settings
	}
	envPath := fspath.JoinStr(root, cfg.Build.EnvFile).String()
	env, err := build.LoadEnvFile(a.Fs, envPath)
	if err != nil {
		reporter.Warn("Could not read the build environment file", "path", envPath, "error", err)
	}
	settings.Env = env
	return settings
}

// openSinks builds the console sink plus the optional JSON log file.
func (a *App) openSinks(verbose bool, logFile string, cfg *config.Config) (report.Sink, func()) {
	console := report.NewConsoleSink(a.stdout, report.ConsoleOptions{Verbose: verbose || cfg.UI.Verbose})

	if logFile == "" {
		logFile = cfg.UI.LogFile
	}
	if logFile == "" {
		return console, func() {}
	}

	file, err := report.OpenFileSink(logFile)
	if err != nil {
		err = issue.WrapWithContext(err, "open the event log", logFile)
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return console, func() {}
	}
	return report.MultiSink{console, file}, func() { _ = file.Close() }
}

// gate layers preset answers over the interactive gate.
func (a *App) gate(req InstallRequest, answers map[prompt.QuestionID]bool) *prompt.ScriptedGate {
	g := prompt.NewScriptedGate(answers, false)
	if req.NonInteractive {
		return g
	}
	if a.Gate != nil {
		g.Fallback = a.Gate
	} else {
		g.Fallback = prompt.NewTerminalGate(a.stdin, a.stdout)
	}
	return g
}

// explain renders the guide matching how res went wrong, if any.
func (a *App) explain(res workflow.Result, scheme config.ColorScheme) {
	switch {
	case errors.Is(res.Err, validate.ErrMissingProjectDescriptor):
		a.renderIssue(issue.MissingProjectDescriptorId, scheme)
	case errors.Is(res.Err, validate.ErrMissingPlugin):
		a.renderIssue(issue.MissingPluginId, scheme)
	}

	for _, b := range res.Builds {
		if b.Err != nil && !b.Succeeded {
			a.renderIssue(issue.BuildToolNotFoundId, scheme)
			break
		}
	}
	for _, step := range res.StepsOf(workflow.KindSync) {
		if errors.Is(step.Err, fsync.ErrSourceUnavailable) {
			a.renderIssue(issue.ReferenceTreeMissingId, scheme)
			break
		}
	}
}

func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	text, err := issue.Get(id).Render(scheme.String())
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, text)
}

// presetAnswers merges configured answers with --answer flags; flags win.
func presetAnswers(configured map[string]bool, flags []string) (map[prompt.QuestionID]bool, error) {
	out := make(map[prompt.QuestionID]bool, len(configured)+len(flags))
	for key, value := range configured {
		id := prompt.QuestionID(key)
		if err := id.Validate(); err != nil {
			return nil, err
		}
		out[id] = value
	}
	for _, flag := range flags {
		id, value, err := prompt.ParseAnswer(flag)
		if err != nil {
			return nil, err
		}
		out[id] = value
	}
	return out, nil
}

// referenceRoot picks the reference tree: flag, then config, then the
// location relative to the working directory.
func referenceRoot(flag, configured string, workDir types.FilesystemPath) types.FilesystemPath {
	for _, candidate := range []string{flag, configured} {
		if candidate == "" {
			continue
		}
		p := types.FilesystemPath(candidate)
		if !fspath.IsAbs(p) {
			p = fspath.JoinStr(workDir, candidate)
		}
		return fspath.Clean(p)
	}
	return layout.DefaultReferenceRoot(workDir)
}
