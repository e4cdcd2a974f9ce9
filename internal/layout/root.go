// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"github.com/unrealclr/hotcompiler/pkg/fspath"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/afero"
)

// ResolveRoot picks the project root from the optional CLI argument.
//
// The argument may point at the project directory itself or at anything
// inside it (typically the .uproject file):
//   - an existing directory is used as-is
//   - an existing file selects its parent directory
//   - otherwise the parent of the argument is used when it is a directory
//   - anything else (including no argument) falls back to workDir
func ResolveRoot(fs afero.Fs, arg string, workDir types.FilesystemPath) types.FilesystemPath {
	if arg == "" {
		return workDir
	}

	p := types.FilesystemPath(arg)
	if info, err := fs.Stat(arg); err == nil {
		if info.IsDir() {
			return absOr(p, workDir)
		}
		return absOr(fspath.Dir(p), workDir)
	}

	parent := fspath.Dir(p)
	if ok, err := afero.DirExists(fs, parent.String()); err == nil && ok {
		return absOr(parent, workDir)
	}

	return workDir
}

func absOr(p, fallback types.FilesystemPath) types.FilesystemPath {
	abs, err := fspath.Abs(p)
	if err != nil {
		return fallback
	}
	return abs
}
