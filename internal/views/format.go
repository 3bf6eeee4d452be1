package views

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/truckline/dispatchdesk/internal/listview"
)

// DateLayout is the absolute date format shown to operators.
const DateLayout = "02/01/2006 15:04"

// now is replaced in tests.
var now = time.Now

// FormatDate renders a backend date. Unparseable values are shown verbatim.
func FormatDate(raw string, relative bool) string {
	t, ok := listview.ParseDate(raw)
	if !ok {
		return raw
	}

	if relative {
		return humanize.RelTime(t, now(), "ago", "from now")
	}

	return t.Local().Format(DateLayout)
}

// FormatCount renders a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Truncate shortens s to width display columns. A non-positive width
// returns s unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}

	return runewidth.Truncate(s, width, "…")
}
