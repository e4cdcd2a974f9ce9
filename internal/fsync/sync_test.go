// SPDX-License-Identifier: MPL-2.0

package fsync

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/unrealclr/hotcompiler/internal/report"

	"github.com/spf13/afero"
)

// faultyFs fails selected operations to exercise per-entry recovery.
type faultyFs struct {
	afero.Fs
	failOpen   map[string]bool
	failRemove bool
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if f.failOpen[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.Fs.Open(name)
}

func (f *faultyFs) RemoveAll(path string) error {
	if f.failRemove {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrPermission}
	}
	return f.Fs.RemoveAll(path)
}

func writeTree(t *testing.T, afs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", path, err)
		}
		if err := afero.WriteFile(afs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
}

func readFile(t *testing.T, afs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

func sourceTree() map[string]string {
	return map[string]string{
		"/src/Runtime.csproj":   "<Project/>",
		"/src/Core/Engine.cs":   "class Engine {}",
		"/src/Core/Deep/Log.cs": "class Log {}",
	}
}

func TestSync_CopiesTree(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())

	rep, err := New(afs).Sync(context.Background(), Request{Source: "/src", Destination: "/dst", Overwrite: true})
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if rep.Copied != 3 || rep.DirsCreated != 2 || !rep.Ok() {
		t.Errorf("report = %+v, want 3 copied, 2 dirs, no failures", rep)
	}
	for src, want := range sourceTree() {
		dst := filepath.Join("/dst", src[len("/src"):])
		if got := readFile(t, afs, dst); got != want {
			t.Errorf("%s = %q, want %q", dst, got, want)
		}
	}
}

func TestSync_IdempotentWithOverwrite(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())
	s := New(afs)
	req := Request{Source: "/src", Destination: "/dst", Overwrite: true}

	for i := range 2 {
		rep, err := s.Sync(context.Background(), req)
		if err != nil {
			t.Fatalf("run %d: Sync() error: %v", i, err)
		}
		if rep.Copied != 3 || rep.Skipped != 0 || !rep.Ok() {
			t.Errorf("run %d: report = %+v", i, rep)
		}
	}
	if got := readFile(t, afs, "/dst/Core/Engine.cs"); got != "class Engine {}" {
		t.Errorf("content changed after second run: %q", got)
	}
}

func TestSync_RemoveDestination(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())
	writeTree(t, afs, map[string]string{"/dst/Stale.cs": "old"})

	_, err := New(afs).Sync(context.Background(), Request{
		Source: "/src", Destination: "/dst", RemoveDestination: true, Overwrite: true,
	})
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if exists, _ := afero.Exists(afs, "/dst/Stale.cs"); exists {
		t.Error("stale file should be gone after RemoveDestination")
	}
	if exists, _ := afero.Exists(afs, "/dst/Runtime.csproj"); !exists {
		t.Error("source file should be copied after removal")
	}
}

func TestSync_KeepsExistingFilesWithoutOverwrite(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())
	writeTree(t, afs, map[string]string{"/dst/Core/Engine.cs": "// user edits"})

	rep, err := New(afs).Sync(context.Background(), Request{Source: "/src", Destination: "/dst"})
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if rep.Skipped != 1 || rep.Copied != 2 {
		t.Errorf("report = %+v, want 1 skipped and 2 copied", rep)
	}
	if got := readFile(t, afs, "/dst/Core/Engine.cs"); got != "// user edits" {
		t.Errorf("existing file overwritten: %q", got)
	}
}

func TestSync_UnreadableFileDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	writeTree(t, mem, sourceTree())
	afs := &faultyFs{Fs: mem, failOpen: map[string]bool{"/src/Core/Engine.cs": true}}
	rec := report.NewRecorder()

	rep, err := New(afs, WithReporter(report.New(rec))).Sync(context.Background(), Request{
		Label: "managed source", Source: "/src", Destination: "/dst", Overwrite: true,
	})
	if err != nil {
		t.Fatalf("Sync() should not fail on a per-file error, got: %v", err)
	}
	if rep.Copied != 2 {
		t.Errorf("Copied = %d, want 2", rep.Copied)
	}
	if len(rep.Failures) != 1 {
		t.Fatalf("len(Failures) = %d, want 1", len(rep.Failures))
	}
	if !errors.Is(rep.Failures[0], ErrFolderCopy) || !errors.Is(rep.Failures[0], fs.ErrPermission) {
		t.Errorf("failure should wrap ErrFolderCopy and the cause, got: %v", rep.Failures[0])
	}
	if rec.Count(report.LevelWarning) != 1 {
		t.Errorf("warnings = %d, want 1", rec.Count(report.LevelWarning))
	}
	if exists, _ := afero.Exists(mem, "/dst/Core/Deep/Log.cs"); !exists {
		t.Error("files after the failing one should still be copied")
	}
}

func TestSync_DeleteFailureIsWarning(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	writeTree(t, mem, sourceTree())
	writeTree(t, mem, map[string]string{"/dst/Stale.cs": "old"})
	afs := &faultyFs{Fs: mem, failRemove: true}
	rec := report.NewRecorder()

	rep, err := New(afs, WithReporter(report.New(rec))).Sync(context.Background(), Request{
		Label: "managed source", Source: "/src", Destination: "/dst", RemoveDestination: true, Overwrite: true,
	})
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0], ErrFolderDelete) {
		t.Errorf("Failures = %v, want one ErrFolderDelete", rep.Failures)
	}
	if rep.Copied != 3 {
		t.Errorf("Copied = %d, want 3 after a failed delete", rep.Copied)
	}
	if !rec.Contains(report.LevelWarning, "managed source") {
		t.Error("delete warning should name the label")
	}
}

func TestSync_SourceMissing(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	_, err := New(afs).Sync(context.Background(), Request{Source: "/nope", Destination: "/dst"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Sync() error = %v, want ErrSourceUnavailable", err)
	}

	writeTree(t, afs, map[string]string{"/file": "x"})
	_, err = New(afs).Sync(context.Background(), Request{Source: "/file", Destination: "/dst"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Sync() on a file error = %v, want ErrSourceUnavailable", err)
	}
}

func TestSync_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())
	writeTree(t, afs, map[string]string{"/dst/Stale.cs": "old"})

	rep, err := New(afs, WithDryRun(true)).Sync(context.Background(), Request{
		Source: "/src", Destination: "/dst", RemoveDestination: true, Overwrite: true,
	})
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if !rep.DryRun || rep.Copied != 3 {
		t.Errorf("report = %+v, want dry run with 3 planned copies", rep)
	}
	if exists, _ := afero.Exists(afs, "/dst/Runtime.csproj"); exists {
		t.Error("dry run should not copy files")
	}
	if exists, _ := afero.Exists(afs, "/dst/Stale.cs"); !exists {
		t.Error("dry run should not remove the destination")
	}
}

func TestSync_Cancelled(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	writeTree(t, afs, sourceTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(afs).Sync(ctx, Request{Source: "/src", Destination: "/dst"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Sync() error = %v, want context.Canceled", err)
	}
}
