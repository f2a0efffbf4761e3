package logger

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type Table struct {
	headers   []string
	rows      [][]string
	out       io.Writer
	colorized bool
}

func NewTable(headers []string, out io.Writer, colorized bool) *Table {
	return &Table{
		headers:   headers,
		out:       out,
		colorized: colorized,
	}
}

// AddRow pads or truncates cells to the header width.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	} else if len(cells) < len(t.headers) {
		padded := make([]string, len(t.headers))
		copy(padded, cells)
		cells = padded
	}

	t.rows = append(t.rows, cells)
}

func (t *Table) Render() string {
	headerStyle := lipgloss.NewStyle().Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	if t.colorized {
		headerStyle = headerStyle.Bold(true).Foreground(lipgloss.Color("4"))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return tbl.String()
}

func (t *Table) Print() {
	fmt.Fprintln(t.out, t.Render())
}
