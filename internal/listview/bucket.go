package listview

import "strings"

// AllBucket is the key of the catch-all bucket every view starts on.
const AllBucket = "all"

// Bucket is a named partition of a collection, rendered as a tab.
// A nil Predicate matches everything.
type Bucket[T any] struct {
	Key       string
	Label     string
	Predicate func(T) bool
}

// BucketCount pairs a bucket with its count over the full collection.
type BucketCount struct {
	Key   string
	Label string
	Count int
}

// Matches reports whether item belongs to b.
func (b Bucket[T]) Matches(item T) bool {
	if b.Predicate == nil {
		return true
	}

	return b.Predicate(item)
}

// All returns the always-true bucket.
func All[T any](label string) Bucket[T] {
	return Bucket[T]{Key: AllBucket, Label: label}
}

// StatusBucket returns a bucket matching items whose status is any of
// statuses. Comparison ignores case and surrounding whitespace.
func StatusBucket[T any](key, label string, status func(T) string, statuses ...string) Bucket[T] {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[normalizeStatus(s)] = struct{}{}
	}

	return Bucket[T]{
		Key:   key,
		Label: label,
		Predicate: func(item T) bool {
			_, ok := set[normalizeStatus(status(item))]
			return ok
		},
	}
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Partition counts the items of all that fall into each bucket.
func Partition[T any](all []T, buckets []Bucket[T]) map[string]int {
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Key] = 0
	}

	for _, item := range all {
		for _, b := range buckets {
			if b.Matches(item) {
				counts[b.Key]++
			}
		}
	}

	return counts
}

// Select returns the items of all that belong to b, in order.
func Select[T any](all []T, b Bucket[T]) []T {
	subset := make([]T, 0, len(all))
	for _, item := range all {
		if b.Matches(item) {
			subset = append(subset, item)
		}
	}

	return subset
}

func findBucket[T any](buckets []Bucket[T], key string) (Bucket[T], bool) {
	for _, b := range buckets {
		if b.Key == key {
			return b, true
		}
	}

	return Bucket[T]{}, false
}
