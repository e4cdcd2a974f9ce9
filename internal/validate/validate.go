// SPDX-License-Identifier: MPL-2.0

// Package validate checks the preconditions that must hold before the
// installer copies or builds anything. Every check is a read-only query
// over an afero.Fs.
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unrealclr/hotcompiler/internal/layout"

	"github.com/spf13/afero"
)

var (
	// ErrMissingProjectDescriptor is the sentinel wrapped by MissingProjectDescriptorError.
	ErrMissingProjectDescriptor = errors.New("missing project descriptor")
	// ErrMissingPlugin is the sentinel wrapped by MissingPluginError.
	ErrMissingPlugin = errors.New("missing plugin")
)

type (
	// MissingProjectDescriptorError is returned when no *.uproject file
	// exists directly under the project root.
	MissingProjectDescriptorError struct {
		Root string
	}

	// MissingPluginError is returned when the plugin folder is absent.
	MissingPluginError struct {
		PluginName   string
		PluginFolder string
	}

	// ProjectReport lists what validation found under the project root.
	ProjectReport struct {
		Root string
		// Descriptors holds every top-level *.uproject file, sorted.
		// More than one is tolerated.
		Descriptors []string
	}
)

// Error implements the error interface.
func (e *MissingProjectDescriptorError) Error() string {
	return fmt.Sprintf("project file not found in %q folder", e.Root)
}

// Unwrap returns ErrMissingProjectDescriptor for errors.Is() compatibility.
func (e *MissingProjectDescriptorError) Unwrap() error { return ErrMissingProjectDescriptor }

// Error implements the error interface.
func (e *MissingPluginError) Error() string {
	return fmt.Sprintf("%s plugin is not present in %q", e.PluginName, e.PluginFolder)
}

// Unwrap returns ErrMissingPlugin for errors.Is() compatibility.
func (e *MissingPluginError) Unwrap() error { return ErrMissingPlugin }

// Project checks that root directly contains at least one project descriptor.
// Subdirectories are not searched.
func Project(fs afero.Fs, root string) (ProjectReport, error) {
	report := ProjectReport{Root: root}

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		// An unreadable or absent root has no descriptor either; keep the
		// cause for verbose output.
		return report, fmt.Errorf("%w: %w", &MissingProjectDescriptorError{Root: root}, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), layout.ProjectDescriptorExt) {
			report.Descriptors = append(report.Descriptors, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(report.Descriptors)

	if len(report.Descriptors) == 0 {
		return report, &MissingProjectDescriptorError{Root: root}
	}
	return report, nil
}

// Plugin checks that pluginFolder exists and is a directory.
func Plugin(fs afero.Fs, pluginFolder, pluginName string) error {
	ok, err := afero.DirExists(fs, pluginFolder)
	if err != nil || !ok {
		return &MissingPluginError{PluginName: pluginName, PluginFolder: pluginFolder}
	}
	return nil
}
