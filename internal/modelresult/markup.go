package modelresult

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableMarkup renders the underlying prediction table as a markdown table.
// Columns are padded to the display width of their widest cell and no cell
// is ever truncated or ellipsized, regardless of content width.
func (r *ModelResult) TableMarkup() string {
	columns := r.table.Columns()

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(escapeCell(c))
	}
	for i := 0; i < r.table.Len(); i++ {
		row := r.table.Row(i)
		for j, c := range columns {
			if w := runewidth.StringWidth(escapeCell(row[c])); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for i := range widths {
		// Markdown separators need at least three dashes.
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var b strings.Builder

	b.WriteString("|")
	for i, c := range columns {
		b.WriteString(" " + padRight(escapeCell(c), widths[i]) + " |")
	}
	b.WriteString("\n|")
	for i := range columns {
		b.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	b.WriteString("\n")

	for i := 0; i < r.table.Len(); i++ {
		row := r.table.Row(i)
		b.WriteString("|")
		for j, c := range columns {
			b.WriteString(" " + padRight(escapeCell(row[c]), widths[j]) + " |")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// escapeCell keeps literal pipes from breaking the table grid.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// padRight pads s with spaces so its display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
