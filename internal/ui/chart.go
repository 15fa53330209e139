package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bdwatch/pursuit/internal/aggregate"
)

// maxBarWidth caps the bar body so charts stay readable on wide terminals.
const maxBarWidth = 24

// RenderChart draws a horizontal bar chart for one lens.
// activeLabel marks the selected facet's bar; cursor is the bar under
// the chart cursor (-1 when the pane is unfocused).
func RenderChart(title string, rows []aggregate.Row, activeLabel string, cursor int, focused bool, width int) string {
	var b strings.Builder

	titleStyle := PaneTitle
	if focused {
		titleStyle = PaneTitleFocused
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(HelpStyle.Render("no data"))
		return b.String()
	}

	labelWidth := 0
	max := 0
	for _, r := range rows {
		if len(r.Label) > labelWidth {
			labelWidth = len(r.Label)
		}
		if r.Count > max {
			max = r.Count
		}
	}

	barWidth := width - labelWidth - 8
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 4 {
		barWidth = 4
	}

	for i, r := range rows {
		label := fmt.Sprintf("%-*s", labelWidth, r.Label)

		fill := 0
		if max > 0 && r.Count > 0 {
			fill = r.Count * barWidth / max
			if fill == 0 {
				fill = 1
			}
		}
		bar := strings.Repeat("█", fill) + strings.Repeat("░", barWidth-fill)

		labelStyle, fillStyle := BarLabel, BarFill
		if r.Label == activeLabel {
			labelStyle, fillStyle = BarLabelActive, BarFillActive
		}
		if focused && i == cursor {
			labelStyle = BarCursor
		}

		marker := " "
		if r.Label == activeLabel {
			marker = "▶"
		}

		b.WriteString(fmt.Sprintf("%s%s %s %3d\n",
			marker,
			labelStyle.Render(label),
			fillStyle.Render(bar),
			r.Count))
	}

	return b.String()
}

// joinCharts lays the two lens charts side by side when the terminal is
// wide enough, stacked otherwise.
func joinCharts(left, right string, width int) string {
	if width >= 80 {
		gap := strings.Repeat(" ", 4)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, right)
}
