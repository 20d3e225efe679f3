package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FindingRow is one numbered row of scan output.
type FindingRow struct {
	Num      int
	Link     string // raw link text
	Caption  string
	Location string // "file @offset+length"
}

// FindingsTable renders numbered findings in columns sized to the terminal.
type FindingsTable struct {
	display *DisplayContext
	rows    []FindingRow
}

// NewFindingsTable creates an empty table for the given display.
func NewFindingsTable(display *DisplayContext) *FindingsTable {
	return &FindingsTable{display: display}
}

// AddRow adds a row to the table.
func (t *FindingsTable) AddRow(row FindingRow) {
	t.rows = append(t.rows, row)
}

const numWidth = 5

var findingColumns = []Column{
	{Percent: 55, Min: 30, Max: 100}, // link
	{Percent: 25, Min: 12, Max: 40},  // caption
	{Percent: 20, Min: 12, Max: 40},  // location
}

func (t *FindingsTable) widths() []int {
	const padding, margin = 2, 2
	return append([]int{numWidth}, t.display.Split(numWidth+3*padding+margin, findingColumns...)...)
}

// Render generates the table output as a string.
func (t *FindingsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	w := t.widths()

	rows := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Num),
			TruncateWithEllipsis(r.Link, w[1]),
			TruncateWithEllipsis(r.Caption, w[2]),
			r.Location,
		})
	}

	tbl := table.New().
		Border(lipgloss.Border{Middle: "─", Top: "─", Bottom: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Width(w[col])
			switch col {
			case 0:
				style = style.Inherit(Muted).Align(lipgloss.Right)
			case 1:
				style = style.Inherit(Accent)
			case 2, 3:
				style = style.Inherit(Muted)
			}
			if col < 3 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render()
}
