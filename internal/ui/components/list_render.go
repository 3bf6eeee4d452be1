package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/ui/theme"
	"github.com/truckline/dispatchdesk/internal/views"
)

const (
	sortAscMark  = " ▲"
	sortDescMark = " ▼"
)

// columnTitle decorates the title of the active sort column.
func columnTitle(title, columnKey string, f views.Frame) string {
	if columnKey == "" || columnKey != f.SortKey {
		return title
	}

	switch f.Direction {
	case listview.DirAsc:
		return title + sortAscMark
	case listview.DirDesc:
		return title + sortDescMark
	default:
		return title
	}
}

// nextSortKey returns the key to pass to ToggleSort so that repeated
// presses walk every sortable column ascending, then descending, and
// finally clear the sort.
func nextSortKey(keys []string, current string, dir listview.Direction) string {
	if len(keys) == 0 {
		return ""
	}

	idx := slices.Index(keys, current)
	if idx < 0 || dir == listview.DirNone {
		return keys[0]
	}

	if dir == listview.DirAsc || idx == len(keys)-1 {
		return current
	}

	return keys[idx+1]
}

// nextBucket returns the bucket delta positions away from current,
// wrapping around.
func nextBucket(buckets []listview.BucketCount, current string, delta int) string {
	if len(buckets) == 0 {
		return current
	}

	idx := slices.IndexFunc(buckets, func(b listview.BucketCount) bool { return b.Key == current })
	if idx < 0 {
		return buckets[0].Key
	}

	n := len(buckets)

	return buckets[((idx+delta)%n+n)%n].Key
}

// nextPageSize cycles through sizes. An unknown current size starts over.
func nextPageSize(sizes []int, current int) int {
	if len(sizes) == 0 {
		return current
	}

	idx := slices.Index(sizes, current)

	return sizes[(idx+1)%len(sizes)]
}

// bucketTabsText renders the status tabs with their counts.
func bucketTabsText(f views.Frame) string {
	parts := make([]string, 0, len(f.Buckets))
	for _, b := range f.Buckets {
		label := fmt.Sprintf(" %s %s ", b.Label, humanize.Comma(int64(b.Count)))
		if b.Key == f.Bucket {
			parts = append(parts, fmt.Sprintf("[%s:%s:b]%s[-:-:-]",
				theme.ColorToTag(theme.Colors.Inverse), theme.ColorToTag(theme.Colors.Selection), label))
			continue
		}

		parts = append(parts, fmt.Sprintf("[%s]%s[-]", theme.ColorToTag(theme.Colors.Secondary), label))
	}

	return strings.Join(parts, " ")
}

// pagerText renders e.g. "Rows 11-20 of 37 (filtered from 120) | Page 2/4 | 10 per page".
func pagerText(f views.Frame) string {
	first, last := 0, 0
	if len(f.Rows) > 0 {
		first = f.Page*f.RowsPerPage + 1
		last = first + len(f.Rows) - 1
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Rows %s-%s of %s", humanize.Comma(int64(first)), humanize.Comma(int64(last)), humanize.Comma(int64(f.FilteredCount)))
	if f.Filtering {
		fmt.Fprintf(&sb, " (filtered from %s)", humanize.Comma(int64(f.TotalCount)))
	}

	fmt.Fprintf(&sb, " | Page %d/%d | %d per page", f.Page+1, max(f.PageCount, 1), f.RowsPerPage)

	if f.Query != "" {
		fmt.Fprintf(&sb, " | Search: %q", f.Query)
	}

	return sb.String()
}

// emptyStateText is shown in place of rows when the page has none.
func emptyStateText(f views.Frame) string {
	switch f.State {
	case listview.StateIdle, listview.StateLoading:
		return "Loading..."
	case listview.StateError:
		if f.Err != nil {
			return "Failed to load: " + f.Err.Error()
		}

		return "Failed to load"
	default:
		if f.Filtering {
			return "No records match the current filter"
		}

		return "No records"
	}
}
