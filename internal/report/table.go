package report

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"marketreport/pkg/utils"
)

// Box-drawing pieces of the framed ("fancy grid") table.
type frame struct {
	left, mid, right, fill string
}

var (
	frameTop    = frame{"╒", "╤", "╕", "═"}
	frameHeader = frame{"╞", "╪", "╡", "═"}
	frameRow    = frame{"├", "┼", "┤", "─"}
	frameBottom = frame{"╘", "╧", "╛", "═"}
)

const frameVertical = "│"

// RenderTable draws headers and rows as a framed grid.
// Column widths use display width, so wide (CJK) characters line up.
// Whitespace inside cells, newlines included, is collapsed to single spaces.
func RenderTable(headers []string, rows [][]string) string {
	strs := utils.NewStringHelper()
	colCount := len(headers)

	// 1. Normalise cells
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, headers)

	for _, row := range rows {
		clean := make([]string, colCount)
		for i := 0; i < colCount && i < len(row); i++ {
			clean[i] = strs.NormalizeWhitespace(row[i])
		}

		cells = append(cells, clean)
	}

	// 2. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range cells {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	// 3. Reconstruct lines
	lines := make([]string, 0, 2*len(cells)+1)
	lines = append(lines, rule(frameTop, colWidths))

	for i, row := range cells {
		lines = append(lines, line(row, colWidths))

		switch {
		case i == len(cells)-1:
			lines = append(lines, rule(frameBottom, colWidths))
		case i == 0:
			lines = append(lines, rule(frameHeader, colWidths))
		default:
			lines = append(lines, rule(frameRow, colWidths))
		}
	}

	return strings.Join(lines, "\n")
}

func rule(f frame, widths []int) string {
	var sb strings.Builder

	sb.WriteString(f.left)

	for i, w := range widths {
		if i > 0 {
			sb.WriteString(f.mid)
		}

		sb.WriteString(strings.Repeat(f.fill, w+2))
	}

	sb.WriteString(f.right)

	return sb.String()
}

func line(cells []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString(frameVertical)

	for i, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(cells[i])

		// Pad with spaces based on display width
		if padding := w - runewidth.StringWidth(cells[i]); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" ")
		sb.WriteString(frameVertical)
	}

	return sb.String()
}
