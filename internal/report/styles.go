// SPDX-License-Identifier: MPL-2.0

package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Palette shared with the CLI layer. Tuned for dark terminal backgrounds.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorInfo    = lipgloss.Color("#22D3EE")
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginTop(1)

	separatorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	stepKeyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// levelStyles returns charmbracelet/log styles with the installer's level
// labels. successLabel replaces the INFO label for the success logger.
func levelStyles(successLabel bool) *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DBUG").
		Foreground(ColorVerbose)
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Bold(true).
		Foreground(ColorInfo)
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(ColorWarning)
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERRO").
		Bold(true).
		Foreground(ColorError)
	if successLabel {
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
			SetString("DONE").
			Bold(true).
			Foreground(ColorSuccess)
	}
	styles.Keys["step"] = stepKeyStyle
	return styles
}
