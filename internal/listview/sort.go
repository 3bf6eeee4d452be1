package listview

import (
	"slices"
	"strings"
	"time"
)

// Direction is the sort direction of a column.
type Direction int

const (
	DirNone Direction = iota
	DirAsc
	DirDesc
)

func (d Direction) String() string {
	switch d {
	case DirAsc:
		return "asc"
	case DirDesc:
		return "desc"
	default:
		return "none"
	}
}

// Next cycles none -> asc -> desc -> none.
func (d Direction) Next() Direction {
	switch d {
	case DirNone:
		return DirAsc
	case DirAsc:
		return DirDesc
	default:
		return DirNone
	}
}

// ParseDirection maps "asc"/"desc" to a Direction; anything else is DirNone.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return DirAsc
	case "desc":
		return DirDesc
	default:
		return DirNone
	}
}

// SortKind selects how SortKey values are compared.
type SortKind int

const (
	SortText SortKind = iota
	SortDate
)

// SortKey describes a sortable column.
type SortKey[T any] struct {
	Key   string
	Label string
	Kind  SortKind
	Value func(T) string
}

// Date layouts accepted by ParseDate, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses the date formats the backend emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Sort returns a stably ordered copy of subset. Unparseable or missing
// dates order as the earliest value. DirNone returns a copy in input order.
func Sort[T any](subset []T, key SortKey[T], dir Direction) []T {
	out := make([]T, len(subset))
	copy(out, subset)

	if dir == DirNone || key.Value == nil || len(out) < 2 {
		return out
	}

	less := textLess[T](key.Value)
	if key.Kind == SortDate {
		less = dateLess[T](key.Value)
	}

	slices.SortStableFunc(out, func(a, b T) int {
		if dir == DirDesc {
			a, b = b, a
		}

		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})

	return out
}

func textLess[T any](value func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		return strings.ToLower(value(a)) < strings.ToLower(value(b))
	}
}

func dateLess[T any](value func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		ta, okA := ParseDate(value(a))
		tb, okB := ParseDate(value(b))

		switch {
		case !okA && !okB:
			return false
		case !okA:
			return true
		case !okB:
			return false
		default:
			return ta.Before(tb)
		}
	}
}

func findSortKey[T any](keys []SortKey[T], key string) (SortKey[T], bool) {
	for _, k := range keys {
		if k.Key == key {
			return k, true
		}
	}

	return SortKey[T]{}, false
}
