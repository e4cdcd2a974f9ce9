// SPDX-License-Identifier: MPL-2.0

// Package layout resolves the well-known locations of an UnrealCLR project
// and of the reference checkout it is installed from.
//
// Resolution is pure path composition: nothing here touches the filesystem
// except ResolveRoot, which decides which directory is the project root.
package layout

import (
	"github.com/unrealclr/hotcompiler/pkg/fspath"
	"github.com/unrealclr/hotcompiler/pkg/types"
)

const (
	// DefaultPluginName is the plugin folder name under <root>/Plugins.
	DefaultPluginName = "UnrealCLR"

	// ProjectDescriptorExt is the extension of an Unreal project descriptor.
	ProjectDescriptorExt = ".uproject"

	pluginsDir      = "Plugins"
	csharpDir       = "CSharp"
	sourceDir       = "Source"
	managedDir      = "Managed"
	runtimeDir      = "Runtime"
	frameworkDir    = "Framework"
	frameworkBinDir = "bin"
	releaseDir      = "Release"

	referencePluginDir = "Plugin"
	referenceCSharpDir = "CSharpSource"
)

// referenceOffset is where the reference checkout lives relative to the
// directory the tool is started from (the tool ships inside it).
var referenceOffset = []string{"..", "..", "..", "..", "..", DefaultPluginName}

type (
	// ProjectLayout holds every location derived from a project root.
	// All fields are computed once by Resolve and never mutated.
	ProjectLayout struct {
		Root       types.FilesystemPath
		PluginName string

		// Plugins is <root>/Plugins.
		Plugins types.FilesystemPath
		// Plugin is <root>/Plugins/<PluginName>.
		Plugin types.FilesystemPath
		// CSharp is <root>/CSharp.
		CSharp types.FilesystemPath
		// Source is <root>/CSharp/Source; each subdirectory is one module.
		Source types.FilesystemPath
		// Managed is <root>/CSharp/Managed.
		Managed types.FilesystemPath
		// Runtime is <root>/CSharp/Managed/Runtime.
		Runtime types.FilesystemPath
		// Framework is <root>/CSharp/Managed/Framework.
		Framework types.FilesystemPath

		// RuntimeOutput receives the published managed runtime.
		RuntimeOutput types.FilesystemPath
		// FrameworkOutput receives the published framework.
		FrameworkOutput types.FilesystemPath
		// ModulesOutput is the parent of every published module folder.
		ModulesOutput types.FilesystemPath
	}

	// ReferenceLayout holds the locations inside the reference checkout.
	ReferenceLayout struct {
		Root types.FilesystemPath
		// Plugin is the native plugin tree copied to ProjectLayout.Plugin.
		Plugin types.FilesystemPath
		// CSharpSource is <ref>/CSharpSource.
		CSharpSource types.FilesystemPath
		// Managed is the runtime/framework source copied to ProjectLayout.Managed.
		Managed types.FilesystemPath
		// Source is the base game source copied to ProjectLayout.Source.
		Source types.FilesystemPath
	}
)

// Resolve derives a ProjectLayout from root. An empty pluginName selects
// DefaultPluginName.
func Resolve(root types.FilesystemPath, pluginName string) ProjectLayout {
	if pluginName == "" {
		pluginName = DefaultPluginName
	}

	plugins := fspath.JoinStr(root, pluginsDir)
	plugin := fspath.JoinStr(plugins, pluginName)
	csharp := fspath.JoinStr(root, csharpDir)
	managed := fspath.JoinStr(csharp, managedDir)
	framework := fspath.JoinStr(managed, frameworkDir)

	return ProjectLayout{
		Root:            root,
		PluginName:      pluginName,
		Plugins:         plugins,
		Plugin:          plugin,
		CSharp:          csharp,
		Source:          fspath.JoinStr(csharp, sourceDir),
		Managed:         managed,
		Runtime:         fspath.JoinStr(managed, runtimeDir),
		Framework:       framework,
		RuntimeOutput:   fspath.JoinStr(plugin, managedDir),
		FrameworkOutput: fspath.JoinStr(framework, frameworkBinDir, releaseDir),
		ModulesOutput:   fspath.JoinStr(root, managedDir),
	}
}

// ResolveReference derives a ReferenceLayout from the reference checkout root.
func ResolveReference(root types.FilesystemPath) ReferenceLayout {
	csharp := fspath.JoinStr(root, referenceCSharpDir)
	return ReferenceLayout{
		Root:         root,
		Plugin:       fspath.JoinStr(root, referencePluginDir),
		CSharpSource: csharp,
		Managed:      fspath.JoinStr(csharp, managedDir),
		Source:       fspath.JoinStr(csharp, sourceDir),
	}
}

// DefaultReferenceRoot returns the reference checkout location for a tool
// started from workDir.
func DefaultReferenceRoot(workDir types.FilesystemPath) types.FilesystemPath {
	return fspath.Clean(fspath.JoinStr(workDir, referenceOffset...))
}
