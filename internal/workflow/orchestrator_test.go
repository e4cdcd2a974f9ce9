// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/unrealclr/hotcompiler/internal/build"
	"github.com/unrealclr/hotcompiler/internal/fsync"
	"github.com/unrealclr/hotcompiler/internal/layout"
	"github.com/unrealclr/hotcompiler/internal/prompt"
	"github.com/unrealclr/hotcompiler/internal/report"
	"github.com/unrealclr/hotcompiler/internal/testutil"
	"github.com/unrealclr/hotcompiler/internal/validate"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/afero"
)

const (
	projectRoot   = "/proj"
	referenceRoot = "/ref"
)

type (
	fixture struct {
		fs     afero.Fs
		gate   *prompt.ScriptedGate
		runner *build.ScriptedRunner
		rec    *report.Recorder
	}

	errGate struct{ err error }
)

func (g errGate) Confirm(context.Context, prompt.Question) (bool, error) { return false, g.err }
func (g errGate) Pause(context.Context, string) error                    { return nil }

// newFixture lays out a project with a plugin and two game modules plus a
// reference tree that ships a third module.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	testutil.ProjectTree{
		Root:       projectRoot,
		Descriptor: true,
		Plugin:     true,
		Modules:    []string{"ModuleA", "ModuleB"},
	}.MustBuild(t, fs)
	testutil.MustWriteFiles(t, fs, projectRoot+"/Plugins/UnrealCLR/Stale.dll")
	testutil.ReferenceTree{Root: referenceRoot, Modules: []string{"ModuleA", "Tests"}}.MustBuild(t, fs)

	return &fixture{
		fs:     fs,
		gate:   prompt.NewScriptedGate(nil, false),
		runner: &build.ScriptedRunner{},
		rec:    report.NewRecorder(),
	}
}

func (f *fixture) orchestrator(gate prompt.Gate) *Orchestrator {
	if gate == nil {
		gate = f.gate
	}
	rep := report.New(f.rec)
	return New(
		layout.Resolve(types.FilesystemPath(projectRoot), ""),
		layout.ResolveReference(types.FilesystemPath(referenceRoot)),
		Dependencies{
			Fs:        f.fs,
			Gate:      gate,
			Syncer:    fsync.New(f.fs, fsync.WithReporter(rep)),
			Publisher: build.NewPublisher(f.runner, build.Settings{}, build.WithPublishReporter(rep)),
			Reporter:  rep,
		},
	)
}

func (f *fixture) builtProjects() []string {
	var out []string
	for _, c := range f.runner.Calls() {
		out = append(out, c.Args[1])
	}
	return out
}

func TestRun_JustCompileBuildsOnlyModules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.JustCompileID: true}
	f.runner.ExitCodes = map[string]types.ExitCode{projectRoot + "/CSharp/Source/ModuleA": 1}

	res := f.orchestrator(nil).Run(context.Background())

	if res.State != StateDone || res.ExitCode != types.ExitSuccess {
		t.Fatalf("State = %s, ExitCode = %d; want Done, 0", res.State, res.ExitCode)
	}
	if got := f.gate.Asked(); !slices.Equal(got, []prompt.QuestionID{prompt.JustCompileID}) {
		t.Errorf("asked %v, want only just-compile", got)
	}
	if len(res.StepsOf(KindSync)) != 0 {
		t.Errorf("sync steps ran: %+v", res.StepsOf(KindSync))
	}

	built := f.builtProjects()
	slices.Sort(built)
	want := []string{projectRoot + "/CSharp/Source/ModuleA", projectRoot + "/CSharp/Source/ModuleB"}
	if !slices.Equal(built, want) {
		t.Errorf("built %v, want %v", built, want)
	}
	if exists, _ := afero.Exists(f.fs, projectRoot+"/Plugins/UnrealCLR/Stale.dll"); !exists {
		t.Error("plugin folder must not be touched")
	}
}

func TestRun_MissingProjectDescriptor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.fs.Remove(projectRoot + "/Game.uproject"); err != nil {
		t.Fatal(err)
	}
	f.gate.Default = true

	res := f.orchestrator(nil).Run(context.Background())

	if res.State != StateFailed || res.ExitCode != types.ExitFatal {
		t.Fatalf("State = %s, ExitCode = %d; want Failed, -1", res.State, res.ExitCode)
	}
	if !errors.Is(res.Err, validate.ErrMissingProjectDescriptor) {
		t.Errorf("Err = %v, want ErrMissingProjectDescriptor", res.Err)
	}
	if len(f.gate.Asked()) != 0 || len(f.runner.Calls()) != 0 {
		t.Errorf("no further steps expected: asked=%v calls=%d", f.gate.Asked(), len(f.runner.Calls()))
	}
	if len(res.Steps) != 1 || res.Steps[0].Outcome != OutcomeFatal {
		t.Errorf("Steps = %+v, want a single fatal validation", res.Steps)
	}
	if !f.rec.Contains(report.LevelError, projectRoot) {
		t.Error("error should name the project root")
	}
}

func TestRun_MissingPluginFailsBeforeBuilds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.fs.RemoveAll(projectRoot + "/Plugins"); err != nil {
		t.Fatal(err)
	}
	// Install path taken, but the plugin install itself is declined.

	res := f.orchestrator(nil).Run(context.Background())

	if res.State != StateFailed || res.ExitCode != types.ExitFatal {
		t.Fatalf("State = %s, want Failed", res.State)
	}
	if !errors.Is(res.Err, validate.ErrMissingPlugin) {
		t.Errorf("Err = %v, want ErrMissingPlugin", res.Err)
	}
	if len(f.runner.Calls()) != 0 {
		t.Errorf("no build expected, got %d", len(f.runner.Calls()))
	}
	if res.Reached(StatePluginValidated) {
		t.Error("PluginValidated must not be reached")
	}
	if !res.Reached(StateProjectValidated) {
		t.Error("ProjectValidated should be reached")
	}
}

func TestRun_FullInstall(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gate.Default = true
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.JustCompileID: false}
	f.runner.ExitCodes = map[string]types.ExitCode{projectRoot + "/CSharp/Managed/Runtime": 2}

	res := f.orchestrator(nil).Run(context.Background())

	if res.State != StateDone || res.ExitCode != types.ExitSuccess {
		t.Fatalf("State = %s (%v), want Done", res.State, res.Err)
	}

	wantTrace := []State{
		StateStart, StateProjectValidated, StatePluginInstalled, StatePluginValidated,
		StateSourceInstalled, StateRuntimeBuilt, StateFrameworkBuilt, StateModulesBuilt, StateDone,
	}
	if !slices.Equal(res.Trace, wantTrace) {
		t.Errorf("Trace = %v, want %v", res.Trace, wantTrace)
	}

	if exists, _ := afero.Exists(f.fs, projectRoot+"/Plugins/UnrealCLR/Stale.dll"); exists {
		t.Error("plugin install should remove previous files")
	}
	if exists, _ := afero.Exists(f.fs, projectRoot+"/Plugins/UnrealCLR/Binaries/UnrealCLR.dll"); !exists {
		t.Error("plugin should be copied from the reference tree")
	}
	if exists, _ := afero.Exists(f.fs, projectRoot+"/CSharp/Managed/Framework/Framework.csproj"); !exists {
		t.Error("managed source should be copied")
	}
	if exists, _ := afero.Exists(f.fs, projectRoot+"/CSharp/Source/Tests/Tests.csproj"); !exists {
		t.Error("game source should be copied")
	}

	calls := f.runner.Calls()
	if len(calls) != 5 {
		t.Fatalf("calls = %d, want runtime + framework + 3 modules", len(calls))
	}
	if calls[0].Args[1] != projectRoot+"/CSharp/Managed/Runtime" || calls[0].Args[7] != projectRoot+"/Plugins/UnrealCLR/Managed" {
		t.Errorf("runtime invocation = %v", calls[0].Args)
	}
	if calls[1].Args[1] != projectRoot+"/CSharp/Managed/Framework" || calls[1].Args[7] != projectRoot+"/CSharp/Managed/Framework/bin/Release" {
		t.Errorf("framework invocation = %v", calls[1].Args)
	}
	if !f.rec.Contains(report.LevelError, "managed runtime") {
		t.Error("a failed runtime build should be reported as an error")
	}
	if len(res.Builds) != 5 {
		t.Errorf("len(Builds) = %d, want 5", len(res.Builds))
	}
}

func TestRun_GameSourceKeepsExistingFiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.InstallGameSourceID: true}

	res := f.orchestrator(nil).Run(context.Background())
	if res.State != StateDone {
		t.Fatalf("State = %s, want Done", res.State)
	}

	data, err := afero.ReadFile(f.fs, projectRoot+"/CSharp/Source/ModuleA/ModuleA.csproj")
	if err != nil {
		t.Fatal(err)
	}
	// Project and reference copies share the same content, so only the
	// record tells whether the file was kept.
	if string(data) != "ModuleA.csproj" {
		t.Errorf("content = %q", data)
	}
	syncs := res.StepsOf(KindSync)
	if len(syncs) != 1 || !strings.Contains(syncs[0].Detail, "1 kept") {
		t.Errorf("sync steps = %+v, want one sync keeping 1 file", syncs)
	}
}

func TestRun_InterruptedGateAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.orchestrator(errGate{err: prompt.ErrInterrupted}).Run(context.Background())

	if res.State != StateFailed || res.ExitCode != types.ExitFatal {
		t.Fatalf("State = %s, want Failed", res.State)
	}
	if !IsAborted(res.Err) {
		t.Errorf("IsAborted(%v) = false", res.Err)
	}
	if len(f.runner.Calls()) != 0 {
		t.Error("no build expected after an interrupted prompt")
	}
}

func TestRun_BrokenGateCountsAsNo(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.orchestrator(errGate{err: errors.New("input closed")}).Run(context.Background())

	if res.State != StateDone {
		t.Fatalf("State = %s (%v), want Done", res.State, res.Err)
	}
	if len(res.StepsOf(KindSync)) != 0 {
		t.Error("declined gates must not sync")
	}
	if len(f.runner.Calls()) != 2 {
		t.Errorf("calls = %d, want the 2 module builds", len(f.runner.Calls()))
	}
	if f.rec.Count(report.LevelWarning) == 0 {
		t.Error("unreadable answers should be warned about")
	}
}

func TestRun_NoSourceFolderStillDone(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.fs.RemoveAll(projectRoot + "/CSharp"); err != nil {
		t.Fatal(err)
	}
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.JustCompileID: true}

	res := f.orchestrator(nil).Run(context.Background())
	if res.State != StateDone || res.ExitCode != types.ExitSuccess {
		t.Fatalf("State = %s, want Done", res.State)
	}
	if !f.rec.Contains(report.LevelWarning, "No source modules") {
		t.Error("missing source folder should be warned about")
	}
}

func TestRun_MissingReferenceTreeIsWarning(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.fs.RemoveAll(referenceRoot); err != nil {
		t.Fatal(err)
	}
	f.gate.Default = true
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.JustCompileID: false}

	res := f.orchestrator(nil).Run(context.Background())
	if res.State != StateDone {
		t.Fatalf("State = %s (%v), want Done", res.State, res.Err)
	}
	if !f.rec.Contains(report.LevelWarning, "Could not install the plugin") {
		t.Error("plugin install failure should be a warning")
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if Summary(Result{}) != "" {
		t.Error("empty result should render nothing")
	}
	out := Summary(Result{Builds: []build.Outcome{
		{Name: "ModuleA", OutputFolder: "/proj/Managed/ModuleA", Succeeded: true},
		{Name: "ModuleB", OutputFolder: "/proj/Managed/ModuleB", ExitCode: 1},
	}})
	for _, want := range []string{"PROJECT", "ModuleA", "ModuleB", "ok", "exit 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary() missing %q:\n%s", want, out)
		}
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if StateModulesBuilt.String() != "ModulesBuilt" || State(99).String() != "Unknown" {
		t.Error("unexpected State names")
	}
	if KindSync.String() != "sync" || OutcomeSkipped.String() != "skipped" {
		t.Error("unexpected step names")
	}
}

func TestRun_MissingReferenceKeepsSyncError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.fs.RemoveAll(referenceRoot); err != nil {
		t.Fatal(err)
	}
	f.gate.Answers = map[prompt.QuestionID]bool{prompt.InstallPluginID: true}

	res := f.orchestrator(nil).Run(context.Background())

	if res.State != StateDone {
		t.Fatalf("State = %s, want Done", res.State)
	}
	syncs := res.StepsOf(KindSync)
	if len(syncs) != 1 {
		t.Fatalf("sync steps = %+v, want one", syncs)
	}
	if !errors.Is(syncs[0].Err, fsync.ErrSourceUnavailable) {
		t.Errorf("sync step Err = %v, want ErrSourceUnavailable", syncs[0].Err)
	}
	if syncs[0].Outcome != OutcomeWarning {
		t.Errorf("sync step outcome = %v, want warning", syncs[0].Outcome)
	}
}
