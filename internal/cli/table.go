package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/truckline/dispatchdesk/internal/views"
)

const columnGap = "  "

// renderWindow prints win as an aligned table followed by a pager line and
// the bucket counts. Widths are measured in display columns so that wide
// runes line up.
func renderWindow(w io.Writer, title string, win views.Window) error {
	widths := make([]int, len(win.Headers))
	for i, h := range win.Headers {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range win.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", title)
	writeRow(&sb, win.Headers, widths)

	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	writeRow(&sb, rule, widths)

	if len(win.Rows) == 0 {
		sb.WriteString("(no matching rows)\n")
	}

	for _, row := range win.Rows {
		writeRow(&sb, row, widths)
	}

	sb.WriteString("\n")
	sb.WriteString(pagerLine(win))
	sb.WriteString("\n")
	sb.WriteString(bucketLine(win))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}

		if i == len(widths)-1 {
			sb.WriteString(cell)
			break
		}

		sb.WriteString(runewidth.FillRight(cell, width))
		sb.WriteString(columnGap)
	}

	sb.WriteString("\n")
}

// pagerLine renders e.g. "Rows 11-20 of 37 (filtered from 120), page 2/4".
func pagerLine(win views.Window) string {
	total := win.FilteredCount

	first, last := 0, 0
	if len(win.Rows) > 0 {
		first = win.Page*win.RowsPerPage + 1
		last = first + len(win.Rows) - 1
	}

	line := fmt.Sprintf("Rows %s-%s of %s", views.FormatCount(first), views.FormatCount(last), views.FormatCount(total))
	if win.Filtering {
		line += fmt.Sprintf(" (filtered from %s)", views.FormatCount(win.TotalCount))
	}

	pages := max(win.PageCount, 1)

	return line + fmt.Sprintf(", page %d/%d", win.Page+1, pages)
}

// bucketLine renders the bucket tabs, marking the selected one.
func bucketLine(win views.Window) string {
	parts := make([]string, 0, len(win.Buckets))
	for _, b := range win.Buckets {
		part := fmt.Sprintf("%s (%s)", b.Label, views.FormatCount(b.Count))
		if b.Key == win.Bucket {
			part = "[" + part + "]"
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, "  ")
}
