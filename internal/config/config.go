// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/unrealclr/hotcompiler/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "hotcompiler"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the hotcompiler configuration directory using
// platform-specific conventions.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// FilePath returns where the user config file lives.
func FilePath(opts LoadOptions) (string, error) {
	dir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions loads defaults, then the first config file found:
// an explicit path, the user config dir, or <BaseDir>/config.cue.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("plugin_name", defaults.PluginName)
	v.SetDefault("reference_root", defaults.ReferenceRoot)
	v.SetDefault("build.tool", defaults.Build.Tool)
	v.SetDefault("build.configuration", defaults.Build.Configuration)
	v.SetDefault("build.framework", defaults.Build.Framework)
	v.SetDefault("build.env_file", defaults.Build.EnvFile)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.pause_on_exit", defaults.UI.PauseOnExit)
	v.SetDefault("ui.log_file", defaults.UI.LogFile)
	v.SetDefault("answers", map[string]any{})

	resolved := ""
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'hotcompiler config init' to create a default file").
				Wrap(os.ErrNotExist).
				Build()
		}
		resolved = path
	} else {
		userPath, err := FilePath(opts)
		if err != nil {
			return nil, err
		}
		localPath := filepath.Join(string(opts.BaseDir), ConfigFileName+"."+ConfigFileExt)
		for _, candidate := range []string{userPath, localPath} {
			if fileExists(candidate) {
				resolved = candidate
				break
			}
		}
	}

	if resolved != "" {
		if err := loadCUEIntoViper(v, resolved); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolved).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare it with 'hotcompiler config show'").
				Wrap(err).
				Build()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Answers == nil {
		cfg.Answers = map[string]bool{}
	}
	cfg.SourcePath = resolved

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolved).
			Wrap(err).
			Build()
	}
	return &cfg, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates path against #Config and merges its values
// into v over the defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the defaults to the user config file. An
// existing file is kept unless force is set. It returns the file path.
func CreateDefaultConfig(opts LoadOptions, force bool) (string, error) {
	path, err := FilePath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(path) && !force {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// hotcompiler configuration\n\n")
	fmt.Fprintf(&sb, "plugin_name: %q\n", cfg.PluginName)
	fmt.Fprintf(&sb, "reference_root: %q\n", cfg.ReferenceRoot)

	sb.WriteString("\nbuild: {\n")
	fmt.Fprintf(&sb, "\ttool: %q\n", cfg.Build.Tool)
	fmt.Fprintf(&sb, "\tconfiguration: %q\n", cfg.Build.Configuration)
	fmt.Fprintf(&sb, "\tframework: %q\n", cfg.Build.Framework)
	fmt.Fprintf(&sb, "\tenv_file: %q\n", cfg.Build.EnvFile)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tpause_on_exit: %v\n", cfg.UI.PauseOnExit)
	fmt.Fprintf(&sb, "\tlog_file: %q\n", cfg.UI.LogFile)
	sb.WriteString("}\n")

	if len(cfg.Answers) == 0 {
		sb.WriteString("\nanswers: {}\n")
		return sb.String()
	}
	sb.WriteString("\nanswers: {\n")
	for _, k := range slices.Sorted(maps.Keys(cfg.Answers)) {
		fmt.Fprintf(&sb, "\t%q: %v\n", k, cfg.Answers[k])
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GenerateTOML renders cfg as TOML.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(data), nil
}
