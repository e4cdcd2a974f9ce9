// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/unrealclr/hotcompiler/internal/config"
	"github.com/unrealclr/hotcompiler/internal/issue"
	"github.com/unrealclr/hotcompiler/pkg/types"

	"github.com/spf13/cobra"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `hotcompiler config` command tree.
// Subcommands that read configuration use the App's ConfigProvider and the
// root --config flag held in req.
func newConfigCommand(app *App, req *InstallRequest) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hotcompiler configuration",
		Long: `Manage hotcompiler configuration.

Configuration is stored in:
  - Linux: ~/.config/hotcompiler/config.cue
  - macOS: ~/Library/Application Support/hotcompiler/config.cue
  - Windows: %APPDATA%\hotcompiler\config.cue

A config.cue in the current directory is used when no user file exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, cmd.OutOrStdout(), req.ConfigPath)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(config.LoadOptions{}, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(config.LoadOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: types.FilesystemPath(req.ConfigPath)})
			if err != nil {
				return err
			}
			switch format {
			case dumpFormatCUE:
				fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			case dumpFormatTOML:
				out, err := config.GenerateTOML(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			default:
				return fmt.Errorf("unknown format %q (valid: %s, %s)", format, dumpFormatCUE, dumpFormatTOML)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", dumpFormatCUE, "output format (cue or toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, w io.Writer, configPath string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)
		return err
	}

	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.SourcePath != "" {
		source = cfg.SourcePath
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("plugin_name"), valueStyle.Render(cfg.PluginName))
	reference := valueStyle.Render(cfg.ReferenceRoot)
	if cfg.ReferenceRoot == "" {
		reference = SubtitleStyle.Render("(next to the tool)")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("reference_root"), reference)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("build"))
	fmt.Fprintf(w, "  tool: %s\n", valueStyle.Render(cfg.Build.Tool))
	fmt.Fprintf(w, "  configuration: %s\n", valueStyle.Render(cfg.Build.Configuration))
	fmt.Fprintf(w, "  framework: %s\n", valueStyle.Render(cfg.Build.Framework))
	fmt.Fprintf(w, "  env_file: %s\n", valueStyle.Render(cfg.Build.EnvFile))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  pause_on_exit: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.PauseOnExit)))
	fmt.Fprintf(w, "  log_file: %s\n", valueStyle.Render(cfg.UI.LogFile))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("answers"))
	if len(cfg.Answers) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, k := range slices.Sorted(maps.Keys(cfg.Answers)) {
		fmt.Fprintf(w, "  %s: %s\n", k, valueStyle.Render(fmt.Sprintf("%v", cfg.Answers[k])))
	}
	return nil
}
