package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Table represents a formatted table
type Table struct {
	Headers []string
	Rows    [][]string
	Colors  [][]*color.Color // Optional colors for cells
	Align   []Alignment      // Column alignment
}

// Alignment defines text alignment in table cells
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		Headers: headers,
		Rows:    make([][]string, 0),
		Colors:  make([][]*color.Color, 0),
		Align:   make([]Alignment, len(headers)),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	t.Colors = append(t.Colors, nil)
	return t
}

// AddColoredRow adds a row with specific colors; nil entries are uncolored
func (t *Table) AddColoredRow(cells []string, colors []*color.Color) *Table {
	t.Rows = append(t.Rows, cells)
	t.Colors = append(t.Colors, colors)
	return t
}

// SetColumnAlignment sets alignment for a specific column
func (t *Table) SetColumnAlignment(col int, align Alignment) *Table {
	if col >= 0 && col < len(t.Align) {
		t.Align[col] = align
	}
	return t
}

// Print prints the table with box borders
func (t *Table) Print() {
	if len(t.Headers) == 0 {
		return
	}

	widths := t.columnWidths()

	t.printBorder(widths, "┌", "┬", "┐")
	t.printRow(t.Headers, widths, true, nil)
	t.printBorder(widths, "├", "┼", "┤")
	for i, row := range t.Rows {
		t.printRow(row, widths, false, t.Colors[i])
	}
	t.printBorder(widths, "└", "┴", "┘")
}

// PrintSimple prints a simple table without borders
func (t *Table) PrintSimple() {
	if len(t.Headers) == 0 {
		return
	}

	widths := t.columnWidths()

	for i, header := range t.Headers {
		BoldCyan.Fprint(Out, padCell(header, widths[i], t.Align[i]))
		if i < len(t.Headers)-1 {
			fmt.Fprint(Out, "  ")
		}
	}
	fmt.Fprintln(Out)

	for i, width := range widths {
		fmt.Fprint(Out, strings.Repeat("─", width))
		if i < len(widths)-1 {
			fmt.Fprint(Out, "  ")
		}
	}
	fmt.Fprintln(Out)

	for i, row := range t.Rows {
		for j, cell := range row {
			if j >= len(widths) {
				break
			}
			printCell(padCell(cell, widths[j], t.Align[j]), colorAt(t.Colors[i], j))
			if j < len(row)-1 {
				fmt.Fprint(Out, "  ")
			}
		}
		fmt.Fprintln(Out)
	}
}

// columnWidths measures each column in visible characters
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := displayWidth(cell); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	return widths
}

func (t *Table) printBorder(widths []int, left, mid, right string) {
	fmt.Fprint(Out, left)
	for i, width := range widths {
		fmt.Fprint(Out, strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Fprint(Out, mid)
		}
	}
	fmt.Fprintln(Out, right)
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool, colors []*color.Color) {
	fmt.Fprint(Out, "│")
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		fmt.Fprint(Out, " ")
		padded := padCell(cell, widths[i], t.Align[i])
		if isHeader {
			BoldCyan.Fprint(Out, padded)
		} else {
			printCell(padded, colorAt(colors, i))
		}
		fmt.Fprint(Out, " │")
	}
	fmt.Fprintln(Out)
}

func colorAt(colors []*color.Color, i int) *color.Color {
	if i < len(colors) {
		return colors[i]
	}
	return nil
}

func printCell(text string, c *color.Color) {
	if c != nil {
		c.Fprint(Out, text)
		return
	}
	fmt.Fprint(Out, text)
}

// padCell pads a cell to the specified width with alignment
func padCell(cell string, width int, align Alignment) string {
	cellLen := displayWidth(cell)
	if cellLen >= width {
		return cell
	}

	padding := width - cellLen
	switch align {
	case AlignRight:
		return strings.Repeat(" ", padding) + cell
	case AlignCenter:
		leftPad := padding / 2
		return strings.Repeat(" ", leftPad) + cell + strings.Repeat(" ", padding-leftPad)
	default:
		return cell + strings.Repeat(" ", padding)
	}
}

// displayWidth is the terminal cell width of s, ignoring ANSI color codes
func displayWidth(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens s to max terminal cells with an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 || displayWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if width+w > max-1 {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + "…"
}
