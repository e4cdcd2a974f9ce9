// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

type (
	// ProjectTree describes an Unreal project to lay out on a filesystem.
	ProjectTree struct {
		Root string
		// Descriptor creates <Root>/Game.uproject.
		Descriptor bool
		// Plugin creates <Root>/Plugins/UnrealCLR with one file.
		Plugin bool
		// Modules are folder names created under <Root>/CSharp/Source.
		Modules []string
	}

	// ReferenceTree describes a reference checkout with a plugin, the
	// managed runtime and framework, and the given game modules.
	ReferenceTree struct {
		Root    string
		Modules []string
	}
)

// MustMkdirAll creates path and its parents or fails the test.
func MustMkdirAll(t testing.TB, fs afero.Fs, path string) {
	t.Helper()
	if err := fs.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parents, or fails the test.
func MustWriteFile(t testing.TB, fs afero.Fs, path, content string) {
	t.Helper()
	MustMkdirAll(t, fs, filepath.Dir(path))
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustWriteFiles writes each path with its base name as content.
func MustWriteFiles(t testing.TB, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		MustWriteFile(t, fs, p, filepath.Base(p))
	}
}

// MustBuild lays out p on fs.
func (p ProjectTree) MustBuild(t testing.TB, fs afero.Fs) {
	t.Helper()
	MustMkdirAll(t, fs, p.Root)
	if p.Descriptor {
		MustWriteFiles(t, fs, filepath.Join(p.Root, "Game.uproject"))
	}
	if p.Plugin {
		MustWriteFiles(t, fs, filepath.Join(p.Root, "Plugins", "UnrealCLR", "UnrealCLR.uplugin"))
	}
	for _, m := range p.Modules {
		MustWriteFiles(t, fs, filepath.Join(p.Root, "CSharp", "Source", m, m+".csproj"))
	}
}

// MustBuild lays out r on fs.
func (r ReferenceTree) MustBuild(t testing.TB, fs afero.Fs) {
	t.Helper()
	MustWriteFiles(t, fs,
		filepath.Join(r.Root, "Plugin", "UnrealCLR.uplugin"),
		filepath.Join(r.Root, "Plugin", "Binaries", "UnrealCLR.dll"),
		filepath.Join(r.Root, "CSharpSource", "Managed", "Runtime", "Runtime.csproj"),
		filepath.Join(r.Root, "CSharpSource", "Managed", "Framework", "Framework.csproj"),
	)
	for _, m := range r.Modules {
		MustWriteFiles(t, fs, filepath.Join(r.Root, "CSharpSource", "Source", m, m+".csproj"))
	}
}
