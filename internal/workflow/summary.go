// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(lipgloss.Color("#10B981"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("#F59E0B"))
)

const resultColumn = 2

// Summary renders the build outcomes of res as a table. It returns an
// empty string when nothing was built.
func Summary(res Result) string {
	if len(res.Builds) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(res.Builds))
	for _, b := range res.Builds {
		rows = append(rows, []string{b.Name, b.OutputFolder, b.Describe()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers("PROJECT", "OUTPUT", "RESULT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < 0 || row >= len(res.Builds):
				return cellStyle
			case col == resultColumn && res.Builds[row].Succeeded:
				return okStyle
			case col == resultColumn:
				return failStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
