package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// table renders rows as padded columns. Columns listed in right are right-aligned.
type table struct {
	title   string
	headers []string
	rows    [][]string
	right   map[int]bool
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers, right: map[int]bool{}}
}

func (t *table) alignRight(cols ...int) *table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2 // padding
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteString("\n")
	}
	sb.WriteString(t.line(headerStyle, t.headers, widths))

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		sb.WriteString(t.line(cellStyle, row, widths))
	}
	if len(t.rows) == 0 {
		sb.WriteString(mutedStyle.Render("(none)"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *table) line(style lipgloss.Style, cells []string, widths []int) string {
	parts := make([]string, 0, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		s := style.Width(w)
		if t.right[i] {
			s = s.Align(lipgloss.Right)
		}
		parts = append(parts, s.Render(cell))
	}
	return strings.Join(parts, mutedStyle.Render("|")) + "\n"
}
