// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/unrealclr/hotcompiler/internal/report"

	"github.com/charmbracelet/lipgloss"
)

// Styles for command output outside the event log. They share the event
// log palette.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(report.ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(report.ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(report.ColorWarning)

	KeyStyle = lipgloss.NewStyle().
			Foreground(report.ColorInfo)
)
