// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/unrealclr/hotcompiler/internal/build"
	"github.com/unrealclr/hotcompiler/internal/config"
	"github.com/unrealclr/hotcompiler/internal/issue"
	"github.com/unrealclr/hotcompiler/internal/layout"
	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/internal/validate"
	"github.com/unrealclr/hotcompiler/internal/watch"
	"github.com/unrealclr/hotcompiler/internal/workflow"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/cobra"
)

// WatchRequest carries the watch command flags.
type WatchRequest struct {
	Path       string
	ConfigPath string
	LogFile    string
	Patterns   []string
	Debounce   time.Duration
	// BuildFirst publishes every module once before watching.
	BuildFirst bool
	DryRun     bool
	Verbose    bool
}

func newWatchCommand(app *App, root *InstallRequest) *cobra.Command {
	var req WatchRequest

	watchCmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Recompile game modules whenever their sources change",
		Long: `Watch the project's CSharp/Source folder and publish each game module
again after its C# sources or project files change.

The project and the plugin are validated first; nothing is installed.
Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Path = args[0]
			}
			req.ConfigPath = root.ConfigPath
			req.Verbose = root.Verbose
			return app.Watch(cmd.Context(), req)
		},
	}

	flags := watchCmd.Flags()
	flags.StringArrayVar(&req.Patterns, "pattern", nil, "glob of files that trigger a rebuild, relative to CSharp/Source (repeatable)")
	flags.DurationVar(&req.Debounce, "debounce", 500*time.Millisecond, "quiet period before rebuilding")
	flags.BoolVar(&req.BuildFirst, "build-first", false, "publish every module once before watching")
	flags.BoolVar(&req.DryRun, "dry-run", false, "print build commands without running them")
	flags.StringVar(&req.LogFile, "log-file", "", "append a JSON event log to this file")
	return watchCmd
}

// Watch validates the project and then republishes changed modules until
// ctx is cancelled.
func (a *App) Watch(ctx context.Context, req WatchRequest) error {
	cfg, err := a.loadConfig(ctx, req.ConfigPath)
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return &ExitError{Code: types.ExitFatal, Err: err}
	}

	wd, err := a.workDir()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	root := layout.ResolveRoot(a.Fs, req.Path, types.FilesystemPath(wd))
	project := layout.Resolve(root, cfg.PluginName)

	sink, closeSink := a.openSinks(req.Verbose, req.LogFile, cfg)
	defer closeSink()
	reporter := report.New(sink)

	if _, err := validate.Project(a.Fs, root.String()); err != nil {
		reporter.Error(err.Error())
		a.renderIssue(issue.MissingProjectDescriptorId, cfg.UI.ColorScheme)
		return &ExitError{Code: types.ExitFatal, Err: err}
	}
	if err := validate.Plugin(a.Fs, project.Plugin.String(), project.PluginName); err != nil {
		reporter.Error(err.Error())
		a.renderIssue(issue.MissingPluginId, cfg.UI.ColorScheme)
		return &ExitError{Code: types.ExitFatal, Err: err}
	}

	runner := a.Runner
	if req.DryRun {
		runner = build.DryRunRunner{Reporter: reporter.WithStep("build")}
	}
	publisher := build.NewPublisher(runner, a.buildSettings(cfg, root, reporter),
		build.WithPublishReporter(reporter.WithStep("build")),
		build.WithOutput(a.stdout, a.stderr))

	rebuild := func(ctx context.Context, names []string) error {
		outcomes, err := a.rebuildModules(ctx, publisher, project, names)
		if summary := workflow.Summary(workflow.Result{Builds: outcomes}); summary != "" {
			fmt.Fprintln(a.stdout, summary)
		}
		return err
	}

	if req.BuildFirst {
		if err := rebuild(ctx, nil); err != nil {
			reporter.Warn("Initial build failed", "error", err)
		}
	}

	w, err := watch.New(watch.Config{
		SourceDir: project.Source.String(),
		Patterns:  req.Patterns,
		Debounce:  req.Debounce,
		Reporter:  reporter.WithStep("watch"),
		OnChange:  rebuild,
	})
	if err != nil {
		return err
	}
	reporter.Info(fmt.Sprintf("Watching %q for changes, press Ctrl+C to stop", project.Source.String()))
	return w.Run(ctx)
}

// rebuildModules publishes the named modules, or every module when names is
// empty. Names that no longer exist on disk are skipped.
func (a *App) rebuildModules(ctx context.Context, publisher *build.Publisher, project layout.ProjectLayout, names []string) ([]build.Outcome, error) {
	modules, err := build.EnumerateModules(a.Fs, project.Source.String(), project.ModulesOutput.String())
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		modules = slices.DeleteFunc(modules, func(m build.Module) bool {
			return !slices.Contains(names, m.Name)
		})
	}
	return publisher.PublishModules(ctx, modules), nil
}
