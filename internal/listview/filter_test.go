package listview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	orders := []testOrder{
		{ID: "1", Tracking: "ABC123-01", Customer: &testParty{Name: "Hoang Long"}},
		{ID: "2", Tracking: "XYZ-02", Customer: nil},
		{ID: "3", Tracking: "abc123-03", Customer: &testParty{Name: "Minh Phat"}},
		{ID: "4", Tracking: "", Customer: &testParty{Name: "abc trading"}},
	}

	tests := []struct {
		name          string
		query         string
		wantIDs       []string
		wantFiltering bool
	}{
		{name: "blank query", query: "", wantIDs: []string{"1", "2", "3", "4"}, wantFiltering: false},
		{name: "whitespace query", query: "   \t", wantIDs: []string{"1", "2", "3", "4"}, wantFiltering: false},
		{name: "case insensitive", query: "ABC123", wantIDs: []string{"1", "3"}, wantFiltering: true},
		{name: "trims query", query: "  xyz ", wantIDs: []string{"2"}, wantFiltering: true},
		{name: "matches second extractor", query: "minh", wantIDs: []string{"3"}, wantFiltering: true},
		{name: "matches across extractors", query: "abc", wantIDs: []string{"1", "3", "4"}, wantFiltering: true},
		{name: "no match", query: "nothing", wantIDs: []string{}, wantFiltering: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, filtering := Filter(orders, tt.query, orderExtractors())

			assert.Equal(t, tt.wantFiltering, filtering)
			if diff := cmp.Diff(tt.wantIDs, ids(got)); diff != "" {
				t.Errorf("Filter() ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterResultIsSubsetAndIdempotent(t *testing.T) {
	orders := twentyFiveOrders()

	for _, query := range []string{"abc123", "customer 1", "TRK-01", "zzz"} {
		once, _ := Filter(orders, query, orderExtractors())
		twice, _ := Filter(once, query, orderExtractors())

		assert.LessOrEqual(t, len(once), len(orders), query)
		if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
			t.Errorf("Filter not idempotent for %q (-once +twice):\n%s", query, diff)
		}

		index := make(map[string]bool, len(orders))
		for _, o := range orders {
			index[o.ID] = true
		}
		for _, o := range once {
			assert.True(t, index[o.ID], "%s not in input", o.ID)
		}
	}
}

func TestFilterToleratesMissingValues(t *testing.T) {
	orders := []testOrder{{ID: "1"}, {ID: "2", Customer: &testParty{}}}
	extractors := append(orderExtractors(), nil)

	require.NotPanics(t, func() {
		got, filtering := Filter(orders, "x", extractors)
		assert.True(t, filtering)
		assert.Empty(t, got)
	})
}
