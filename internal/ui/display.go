package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// fallbackWidth is used when stdout is not a terminal or its size is unknown.
const fallbackWidth = 120

// DisplayContext describes the terminal that command output goes to.
type DisplayContext struct {
	Width int
	IsTTY bool
}

// NewDisplayContext inspects stdout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	d := &DisplayContext{Width: fallbackWidth, IsTTY: term.IsTerminal(fd)}
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.Width = w
		}
	}
	return d
}

// FixedDisplay returns a terminal display of the given width.
func FixedDisplay(width int) *DisplayContext {
	return &DisplayContext{Width: width, IsTTY: true}
}

// Usable returns the width left after reserving margin columns, at least 1.
func (d *DisplayContext) Usable(margin int) int {
	return max(d.Width-margin, 1)
}

// Column is a share of the usable width, in percent, bounded by Min and Max.
type Column struct {
	Percent  int
	Min, Max int
}

// Split divides the width left after reserved among cols.
func (d *DisplayContext) Split(reserved int, cols ...Column) []int {
	avail := d.Usable(reserved)
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = min(max(avail*c.Percent/100, c.Min), c.Max)
	}
	return out
}
