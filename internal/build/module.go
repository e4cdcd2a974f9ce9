// SPDX-License-Identifier: MPL-2.0

package build

import (
	"path/filepath"

	"github.com/unrealclr/hotcompiler/internal/issue"

	"github.com/spf13/afero"
)

// Module is one game module: an immediate subfolder of the source folder.
type Module struct {
	Name       string
	SourcePath string
	OutputPath string
}

// Target converts m into a publish Target.
func (m Module) Target() Target {
	return Target{Name: m.Name, ProjectFolder: m.SourcePath, OutputFolder: m.OutputPath}
}

// EnumerateModules lists the immediate subdirectories of sourceDir. Each
// module publishes into outputRoot/<name>. Files and deeper folders are
// ignored. The order is that of the directory listing.
func EnumerateModules(fs afero.Fs, sourceDir, outputRoot string) ([]Module, error) {
	sourceDir = filepath.Clean(sourceDir)
	entries, err := afero.ReadDir(fs, sourceDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("list game modules").
			WithResource(sourceDir).
			WithSuggestion("Create one folder per game module under CSharp/Source").
			Wrap(err).
			Build()
	}

	modules := make([]Module, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		modules = append(modules, Module{
			Name:       name,
			SourcePath: filepath.Join(sourceDir, name),
			OutputPath: filepath.Join(outputRoot, name),
		})
	}
	return modules, nil
}
