// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unrealclr/hotcompiler/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultPluginName    = "UnrealCLR"
	defaultTool          = "dotnet"
	defaultConfiguration = "Release"
	defaultFramework     = "net5.0"
	defaultEnvFile       = ".env"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config is the complete installer configuration.
	Config struct {
		// PluginName is the folder name under <project>/Plugins.
		PluginName string `json:"plugin_name" mapstructure:"plugin_name" toml:"plugin_name"`
		// ReferenceRoot overrides the default reference tree location.
		ReferenceRoot string `json:"reference_root" mapstructure:"reference_root" toml:"reference_root"`
		// Build selects the build tool and its arguments.
		Build BuildConfig `json:"build" mapstructure:"build" toml:"build"`
		// UI configures output and prompts.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// Answers presets confirmations by question id.
		Answers map[string]bool `json:"answers" mapstructure:"answers" toml:"answers"`

		// SourcePath is the file the values were loaded from, empty for
		// defaults only.
		SourcePath string `json:"-" mapstructure:"-" toml:"-"`
	}

	// BuildConfig configures the publish invocation.
	BuildConfig struct {
		Tool          string `json:"tool" mapstructure:"tool" toml:"tool"`
		Configuration string `json:"configuration" mapstructure:"configuration" toml:"configuration"`
		Framework     string `json:"framework" mapstructure:"framework" toml:"framework"`
		// EnvFile is a dotenv file relative to the project root.
		EnvFile string `json:"env_file" mapstructure:"env_file" toml:"env_file"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// PauseOnExit waits for a key press before the process exits.
		PauseOnExit bool `json:"pause_on_exit" mapstructure:"pause_on_exit" toml:"pause_on_exit"`
		// LogFile receives JSON event lines when set.
		LogFile string `json:"log_file" mapstructure:"log_file" toml:"log_file"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath types.FilesystemPath
		// BaseDir is where ./config.cue is looked up; empty means the
		// working directory.
		BaseDir types.FilesystemPath
	}

	// InvalidLoadOptionsError is returned when a LoadOptions path is
	// whitespace-only.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		PluginName: defaultPluginName,
		Build: BuildConfig{
			Tool:          defaultTool,
			Configuration: defaultConfiguration,
			Framework:     defaultFramework,
			EnvFile:       defaultEnvFile,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			PauseOnExit: true,
		},
		Answers: map[string]bool{},
	}
}

func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error unless cs is auto, dark or light.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks constraints the schema cannot see after defaults are
// merged in.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.PluginName) == "" {
		errs = append(errs, errors.New("plugin_name must not be empty"))
	}
	if strings.TrimSpace(c.Build.Tool) == "" {
		errs = append(errs, errors.New("build.tool must not be empty"))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate rejects whitespace-only paths.
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.BaseDir} {
		if p == "" {
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
