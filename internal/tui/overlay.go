package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt composites overlay on top of base at column x, row y. Both are
// treated as line grids.
func overlayAt(base, overlay string, x, y, width int) string {
	baseLines := splitLines(base)
	for len(baseLines) < y+len(splitLines(overlay)) {
		baseLines = append(baseLines, "")
	}
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		line = padRight(line, overlayWidth)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, x+ansi.StringWidth(line), "")
		}
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// centerOverlay places overlay in the middle of a width x height screen.
func centerOverlay(base, overlay string, width, height int) string {
	lines := splitLines(overlay)
	x := max((width-maxLineWidth(lines))/2, 0)
	y := max((height-len(lines))/2, 0)
	return overlayAt(base, overlay, x, y, width)
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		m = max(m, ansi.StringWidth(line))
	}
	return m
}

// padRight pads s with spaces to the given visual width.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); width > 0 && w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
