package listview

import "strings"

// Extractor derives one searchable string from an item. Extractors must
// return "" for missing values.
type Extractor[T any] func(T) string

// Filter keeps the items of subset where any extractor value contains query,
// ignoring case. A blank query returns subset itself and isFiltering=false.
func Filter[T any](subset []T, query string, extractors []Extractor[T]) (result []T, isFiltering bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return subset, false
	}

	result = make([]T, 0, len(subset))
	for _, item := range subset {
		if matchesAny(item, needle, extractors) {
			result = append(result, item)
		}
	}

	return result, true
}

func matchesAny[T any](item T, needle string, extractors []Extractor[T]) bool {
	for _, extract := range extractors {
		if extract == nil {
			continue
		}

		if strings.Contains(strings.ToLower(extract(item)), needle) {
			return true
		}
	}

	return false
}
