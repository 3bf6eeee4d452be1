package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTrip struct {
	Code   string
	Status string
}

func tripBuckets() []Bucket[testTrip] {
	status := func(t testTrip) string { return t.Status }

	return []Bucket[testTrip]{
		StatusBucket("not_started", "Not started", status, "not_started"),
		StatusBucket("ongoing", "Ongoing", status, "in_progress", "loading", "unloading", "delivering"),
		StatusBucket("completed", "Completed", status, "completed"),
		StatusBucket("canceled", "Canceled", status, "canceled"),
		StatusBucket("delaying", "Delaying", status, "delaying"),
	}
}

func TestPartitionDisjointBucketsSumToTotal(t *testing.T) {
	trips := []testTrip{
		{Code: "T1", Status: "not_started"},
		{Code: "T2", Status: "in_progress"},
		{Code: "T3", Status: "loading"},
		{Code: "T4", Status: "unloading"},
		{Code: "T5", Status: "delivering"},
		{Code: "T6", Status: "completed"},
		{Code: "T7", Status: "canceled"},
		{Code: "T8", Status: "delaying"},
		{Code: "T9", Status: "IN_PROGRESS"},
	}

	counts := Partition(trips, tripBuckets())

	assert.Equal(t, map[string]int{
		"not_started": 1,
		"ongoing":     5,
		"completed":   1,
		"canceled":    1,
		"delaying":    1,
	}, counts)

	sum := 0
	for _, n := range counts {
		sum += n
	}
	assert.Equal(t, len(trips), sum)
}

func TestPartitionAllBucketCountsEverything(t *testing.T) {
	orders := twentyFiveOrders()
	counts := Partition(orders, orderBuckets())

	assert.Equal(t, 25, counts[AllBucket])
	assert.Equal(t, 10, counts["pending"])
	assert.Equal(t, 15, counts["completed"])
}

func TestPartitionEmptyCollection(t *testing.T) {
	counts := Partition([]testOrder(nil), orderBuckets())

	require.Len(t, counts, 3)
	for key, n := range counts {
		assert.Zero(t, n, key)
	}
}

func TestSelectKeepsOrder(t *testing.T) {
	trips := []testTrip{
		{Code: "T1", Status: "loading"},
		{Code: "T2", Status: "completed"},
		{Code: "T3", Status: "delivering"},
	}

	ongoing, ok := findBucket(tripBuckets(), "ongoing")
	require.True(t, ok)

	subset := Select(trips, ongoing)
	require.Len(t, subset, 2)
	assert.Equal(t, "T1", subset[0].Code)
	assert.Equal(t, "T3", subset[1].Code)
}

func TestBucketNilPredicateMatchesAll(t *testing.T) {
	b := Bucket[testTrip]{Key: "any"}
	assert.True(t, b.Matches(testTrip{}))
}
