// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/unrealclr/hotcompiler/internal/build"
	"github.com/unrealclr/hotcompiler/internal/fsync"
	"github.com/unrealclr/hotcompiler/internal/layout"
	"github.com/unrealclr/hotcompiler/internal/prompt"
	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/internal/validate"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/afero"
)

type (
	// Dependencies are the collaborators an Orchestrator drives.
	Dependencies struct {
		Fs        afero.Fs
		Gate      prompt.Gate
		Syncer    *fsync.Syncer
		Publisher *build.Publisher
		Reporter  *report.Reporter
	}

	// Orchestrator runs the install-and-compile sequence for one project.
	Orchestrator struct {
		project   layout.ProjectLayout
		reference layout.ReferenceLayout
		deps      Dependencies
		log       *report.Reporter
	}

	// run holds the mutable state of a single Run call.
	run struct {
		ctx context.Context
		res Result
	}
)

// errAborted marks a run stopped by the user or by context cancellation.
var errAborted = errors.New("run aborted")

// New creates an Orchestrator. Missing dependencies get inert defaults:
// the OS filesystem, a gate that declines everything, and a publisher that
// only logs.
func New(project layout.ProjectLayout, reference layout.ReferenceLayout, deps Dependencies) *Orchestrator {
	if deps.Reporter == nil {
		deps.Reporter = report.New(nil)
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Gate == nil {
		deps.Gate = prompt.NewScriptedGate(nil, false)
	}
	if deps.Syncer == nil {
		deps.Syncer = fsync.New(deps.Fs, fsync.WithReporter(deps.Reporter))
	}
	if deps.Publisher == nil {
		deps.Publisher = build.NewPublisher(build.DryRunRunner{Reporter: deps.Reporter}, build.Settings{},
			build.WithPublishReporter(deps.Reporter))
	}
	return &Orchestrator{project: project, reference: reference, deps: deps, log: deps.Reporter}
}

// Run executes the sequence and returns its Result. It never panics on
// step failures; only a missing project descriptor or plugin fails a run.
func (o *Orchestrator) Run(ctx context.Context) Result {
	r := &run{ctx: ctx}
	r.enter(StateStart)

	o.log.Section("TRY INSTALL AND COMPILE")

	if err := o.validateProject(r); err != nil {
		return o.fail(r, err)
	}
	o.log.Separator()

	justCompile, err := o.confirm(r, prompt.JustCompile)
	if err != nil {
		return o.fail(r, err)
	}
	install := !justCompile

	if install {
		if err := o.installPlugin(r); err != nil {
			return o.fail(r, err)
		}
		o.log.Separator()
	}
	r.enter(StatePluginInstalled)

	if err := o.validatePlugin(r); err != nil {
		return o.fail(r, err)
	}
	o.log.Separator()

	if install {
		if err := o.installSource(r); err != nil {
			return o.fail(r, err)
		}
		o.log.Separator()
	}
	r.enter(StateSourceInstalled)

	if install {
		if err := o.gatedBuild(r, prompt.BuildRuntime, "managed runtime", build.Target{
			Name:          "Runtime",
			ProjectFolder: o.project.Runtime.String(),
			OutputFolder:  o.project.RuntimeOutput.String(),
		}); err != nil {
			return o.fail(r, err)
		}
		o.log.Separator()
	}
	r.enter(StateRuntimeBuilt)

	if install {
		if err := o.gatedBuild(r, prompt.BuildFramework, "framework", build.Target{
			Name:          "Framework",
			ProjectFolder: o.project.Framework.String(),
			OutputFolder:  o.project.FrameworkOutput.String(),
		}); err != nil {
			return o.fail(r, err)
		}
		o.log.Separator()
	}
	r.enter(StateFrameworkBuilt)

	o.buildModules(r)
	r.enter(StateModulesBuilt)
	o.log.Separator()

	if err := ctx.Err(); err != nil {
		return o.fail(r, fmt.Errorf("%w: %w", errAborted, err))
	}

	o.log.Success("Done!")
	r.enter(StateDone)
	r.res.ExitCode = types.ExitSuccess
	return r.res
}

func (o *Orchestrator) validateProject(r *run) error {
	log := o.log.WithStep("validate")
	log.Section("VALIDATE PROJECT")

	root := o.project.Root.String()
	rep, err := validate.Project(o.deps.Fs, root)
	if err != nil {
		log.Error(fmt.Sprintf("Project file not found in %q folder!", root))
		r.recordErr(KindValidate, "project", OutcomeFatal, err)
		return err
	}
	for _, d := range rep.Descriptors {
		log.Info(fmt.Sprintf("Project file %q found in %q folder!", d, root))
	}
	r.record(KindValidate, "project", OutcomeSuccess, fmt.Sprintf("%d descriptor(s)", len(rep.Descriptors)))
	r.enter(StateProjectValidated)
	return nil
}

func (o *Orchestrator) validatePlugin(r *run) error {
	log := o.log.WithStep("validate")
	log.Section("VALIDATE PLUGIN")

	name := o.project.PluginName
	if err := validate.Plugin(o.deps.Fs, o.project.Plugin.String(), name); err != nil {
		log.Error(fmt.Sprintf("%s plugin is not present!", name))
		r.recordErr(KindValidate, "plugin", OutcomeFatal, err)
		return err
	}
	log.Info(fmt.Sprintf("Plugin %q found in %q folder!", name, o.project.Plugins.String()))
	r.record(KindValidate, "plugin", OutcomeSuccess, "")
	r.enter(StatePluginValidated)
	return nil
}

func (o *Orchestrator) installPlugin(r *run) error {
	o.log.Section("DOWNLOAD/INSTALL PLUGIN")

	ok, err := o.confirm(r, prompt.InstallPlugin)
	if err != nil || !ok {
		return err
	}
	if !o.sync(r, fsync.Request{
		Label:             "plugin",
		Source:            o.reference.Plugin.String(),
		Destination:       o.project.Plugin.String(),
		RemoveDestination: true,
		Overwrite:         true,
	}) {
		o.log.Warn("Could not install the plugin")
	}
	return r.ctx.Err()
}

func (o *Orchestrator) installSource(r *run) error {
	o.log.Section("DOWNLOAD/INSTALL SOURCE")

	ok, err := o.confirm(r, prompt.InstallManaged)
	if err != nil {
		return err
	}
	if ok && !o.sync(r, fsync.Request{
		Label:             "managed framework and runtime",
		Source:            o.reference.Managed.String(),
		Destination:       o.project.Managed.String(),
		RemoveDestination: true,
		Overwrite:         true,
	}) {
		o.log.Warn("Could not install the managed framework and runtime source")
	}
	o.log.Separator()

	ok, err = o.confirm(r, prompt.InstallGameSource)
	if err != nil {
		return err
	}
	if ok && !o.sync(r, fsync.Request{
		Label:       "game source",
		Source:      o.reference.Source.String(),
		Destination: o.project.Source.String(),
	}) {
		o.log.Warn("Could not install the base game source")
	}
	return r.ctx.Err()
}

// sync mirrors one folder and reports whether setup succeeded. Partial
// per-entry failures still count as success.
func (o *Orchestrator) sync(r *run, req fsync.Request) bool {
	log := o.log.WithStep("sync")
	if req.RemoveDestination {
		log.Info(fmt.Sprintf("Removing the previous %s installation...", req.Label))
	}
	log.Info(fmt.Sprintf("Copying %s...", req.Label))

	rep, err := o.deps.Syncer.Sync(r.ctx, req)
	if err != nil {
		log.Warn(err.Error())
		r.recordErr(KindSync, req.Label, OutcomeWarning, err)
		return false
	}

	detail := fmt.Sprintf("%d copied, %d kept, %d failed", rep.Copied, rep.Skipped, len(rep.Failures))
	switch {
	case rep.DryRun:
		log.Info(fmt.Sprintf("Dry run, %s not copied", req.Label), "files", rep.Copied)
		r.record(KindSync, req.Label, OutcomeSkipped, "dry run: "+detail)
	case rep.Ok():
		log.Success(fmt.Sprintf("Copied %s successfully!", req.Label), "files", rep.Copied, "kept", rep.Skipped)
		r.record(KindSync, req.Label, OutcomeSuccess, detail)
	default:
		log.Warn(fmt.Sprintf("Copied %s with %d failures", req.Label, len(rep.Failures)))
		r.record(KindSync, req.Label, OutcomeWarning, detail)
	}
	return true
}

func (o *Orchestrator) gatedBuild(r *run, q prompt.Question, label string, target build.Target) error {
	ok, err := o.confirm(r, q)
	if err != nil || !ok {
		return err
	}

	log := o.log.WithStep("build")
	log.Info(fmt.Sprintf("Launching compilation of the %s...", label))
	out := o.deps.Publisher.Publish(r.ctx, target)
	r.res.Builds = append(r.res.Builds, out)

	if out.Succeeded {
		log.Success(fmt.Sprintf("Successfully compiled %s!", label))
		r.record(KindBuild, target.Name, OutcomeSuccess, out.Describe())
		return nil
	}
	log.Error(fmt.Sprintf("Compilation of the %s was finished with an error (exit code: %s)!", label, out.ExitCode),
		buildAttrs(out)...)
	r.record(KindBuild, target.Name, OutcomeWarning, out.Describe())
	return r.ctx.Err()
}

func (o *Orchestrator) buildModules(r *run) {
	log := o.log.WithStep("build")
	log.Info("Launching compilation for source modules...")

	modules, err := build.EnumerateModules(o.deps.Fs, o.project.Source.String(), o.project.ModulesOutput.String())
	if err != nil {
		log.Warn("No source modules found", "error", err)
		r.recordErr(KindBuild, "modules", OutcomeWarning, err)
		return
	}
	for _, m := range modules {
		log.Info(fmt.Sprintf("Launching compilation of module [%s] at [%s]", m.Name, m.SourcePath))
	}

	outcomes := o.deps.Publisher.PublishModules(r.ctx, modules)
	r.res.Builds = append(r.res.Builds, outcomes...)
	for _, out := range outcomes {
		outcome := OutcomeSuccess
		if !out.Succeeded {
			outcome = OutcomeWarning
		}
		r.record(KindBuild, out.Name, outcome, out.Describe())
	}
}

// confirm asks q. A failing prompt counts as a decline unless the user
// interrupted it or ctx was cancelled, which aborts the run.
func (o *Orchestrator) confirm(r *run, q prompt.Question) (bool, error) {
	ok, err := o.deps.Gate.Confirm(r.ctx, q)
	switch {
	case err == nil:
	case errors.Is(err, prompt.ErrInterrupted) || r.ctx.Err() != nil:
		return false, fmt.Errorf("%w: %w", errAborted, err)
	default:
		o.log.Warn("Could not read the answer, assuming no", "question", string(q.ID), "error", err)
		ok = false
	}

	outcome, detail := OutcomeSkipped, "no"
	if ok {
		outcome, detail = OutcomeSuccess, "yes"
	}
	r.record(KindConfirm, string(q.ID), outcome, detail)
	return ok, nil
}

func (o *Orchestrator) fail(r *run, err error) Result {
	if errors.Is(err, errAborted) {
		o.log.Error("Installation aborted")
	} else {
		o.log.Error("Could not compile")
	}
	r.enter(StateFailed)
	r.res.ExitCode = types.ExitFatal
	r.res.Err = err
	return r.res
}

func (r *run) enter(s State) {
	r.res.State = s
	r.res.Trace = append(r.res.Trace, s)
}

func (r *run) record(kind StepKind, name string, outcome StepOutcome, detail string) {
	r.res.Steps = append(r.res.Steps, StepRecord{Kind: kind, Name: name, Outcome: outcome, Detail: detail})
}

func (r *run) recordErr(kind StepKind, name string, outcome StepOutcome, err error) {
	r.res.Steps = append(r.res.Steps, StepRecord{Kind: kind, Name: name, Outcome: outcome, Detail: err.Error(), Err: err})
}

func buildAttrs(out build.Outcome) []any {
	attrs := []any{"project", out.ProjectFolder, "output", out.OutputFolder}
	if out.Err != nil {
		attrs = append(attrs, "error", out.Err)
	}
	return attrs
}

// IsAborted reports whether err ended a run by interruption rather than by
// a failed validation.
func IsAborted(err error) bool {
	return errors.Is(err, errAborted)
}
