// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for hotcompiler.
//
// The root command installs the UnrealCLR plugin and sources into an Unreal
// Engine project and compiles its managed game modules. The config
// subcommands inspect and create the configuration file.
package cmd
