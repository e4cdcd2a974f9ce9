// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/unrealclr/hotcompiler/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	var req InstallRequest

	rootCmd := &cobra.Command{
		Use:   "hotcompiler [path]",
		Short: "Install UnrealCLR into a project and compile its managed code",
		Long: TitleStyle.Render("hotcompiler") + SubtitleStyle.Render(" - UnrealCLR installer and compiler") + `

hotcompiler validates an Unreal Engine project, optionally installs the
UnrealCLR plugin, the managed runtime and framework sources and the base
game source from the UnrealCLR checkout, then publishes every managed
game module found under CSharp/Source.

The optional path may point at the project folder or at any file inside
it, such as the .uproject file. Without it the current directory is used.

` + SubtitleStyle.Render("Examples:") + `
  hotcompiler                                 Ask before every install step
  hotcompiler ./MyGame/MyGame.uproject        Use the project next to the descriptor
  hotcompiler --answer just-compile=yes       Only compile the game modules
  hotcompiler --dry-run --non-interactive     Show what would be built
  hotcompiler watch ./MyGame                  Recompile modules as they change`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Path = args[0]
			}
			res, err := app.Install(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !res.ExitCode.IsSuccess() {
				return &ExitError{Code: res.ExitCode, Err: res.Err}
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&req.DryRun, "dry-run", false, "print build commands and planned copies without changing anything")
	flags.StringArrayVar(&req.Answers, "answer", nil, "preset an answer as question=yes|no (repeatable)")
	flags.BoolVar(&req.NonInteractive, "non-interactive", false, "never prompt; unanswered questions default to no")
	flags.StringVar(&req.Reference, "reference", "", "UnrealCLR checkout to install from")
	flags.BoolVar(&req.NoPause, "no-pause", false, "do not wait for a key press before exiting")
	flags.StringVar(&req.LogFile, "log-file", "", "append a JSON event log to this file")

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVarP(&req.Verbose, "verbose", "v", false, "enable verbose output")
	persistent.StringVar(&req.ConfigPath, "config", "", "config file (default is <config dir>/hotcompiler/config.cue)")

	rootCmd.AddCommand(newWatchCommand(app, &req))
	rootCmd.AddCommand(newConfigCommand(app, &req))
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	rootCmd := newRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own layout, with the full chain when verbose.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
