// SPDX-License-Identifier: MPL-2.0

// Package config handles installer configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in the user config directory
// (%APPDATA%\hotcompiler on Windows, ~/Library/Application Support/hotcompiler
// on macOS, $XDG_CONFIG_HOME/hotcompiler elsewhere) or from ./config.cue.
// Every file is validated against the embedded #Config schema before its
// values are merged over the defaults.
package config
