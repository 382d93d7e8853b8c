package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
)

// renderTable pads columns to their widest visible cell. Styling is applied
// only when styled is set so piped output stays plain.
func renderTable(headers []string, rows [][]string, styled bool) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	var header, dim *lipgloss.Style
	if styled {
		header, dim = &styleHeader, &styleDim
	}
	writeRow(headers, header)

	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("─", w)
	}
	writeRow(separators, dim)

	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}
