package listview

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateKey() SortKey[testOrder] {
	return orderSortKeys()[0]
}

func TestSortByDate(t *testing.T) {
	orders := []testOrder{
		{ID: "mar", CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: "bad", CreatedAt: "not a date"},
		{ID: "jan", CreatedAt: "2024-01-15"},
		{ID: "missing", CreatedAt: ""},
		{ID: "feb", CreatedAt: "15/02/2024"},
	}

	tests := []struct {
		name string
		dir  Direction
		want []string
	}{
		{name: "none keeps input order", dir: DirNone, want: []string{"mar", "bad", "jan", "missing", "feb"}},
		{name: "asc puts unparseable first", dir: DirAsc, want: []string{"bad", "missing", "jan", "feb", "mar"}},
		{name: "desc puts unparseable last", dir: DirDesc, want: []string{"mar", "feb", "jan", "bad", "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sort(orders, dateKey(), tt.dir)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	orders := twentyFiveOrders()
	before := ids(orders)

	sorted := Sort(orders, dateKey(), DirDesc)

	assert.Empty(t, cmp.Diff(before, ids(orders)))
	require.Len(t, sorted, len(orders))
	assert.Equal(t, "o-24", sorted[0].ID)

	sorted[0].ID = "changed"
	assert.Equal(t, "o-00", orders[0].ID)
}

func TestSortIsStable(t *testing.T) {
	orders := []testOrder{
		{ID: "a", CreatedAt: "2024-01-01"},
		{ID: "b", CreatedAt: "2024-01-01"},
		{ID: "c", CreatedAt: "2023-12-31"},
		{ID: "d", CreatedAt: "2024-01-01"},
	}

	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(Sort(orders, dateKey(), DirAsc)))
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(Sort(orders, dateKey(), DirDesc)))
}

func TestSortByText(t *testing.T) {
	orders := []testOrder{
		{ID: "1", Tracking: "beta"},
		{ID: "2", Tracking: "Alpha"},
		{ID: "3", Tracking: "gamma"},
	}

	got := Sort(orders, orderSortKeys()[1], DirAsc)
	assert.Equal(t, []string{"2", "1", "3"}, ids(got))
}

func TestSortNilValueIsNoOp(t *testing.T) {
	orders := twentyFiveOrders()[:3]
	got := Sort(orders, SortKey[testOrder]{Key: "x"}, DirAsc)
	assert.Equal(t, ids(orders), ids(got))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "2024-05-06T07:08:09Z", want: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), ok: true},
		{in: "2024-05-06T07:08:09.5+07:00", want: time.Date(2024, 5, 6, 0, 8, 9, 500000000, time.UTC), ok: true},
		{in: "2024-05-06T07:08:09", want: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), ok: true},
		{in: "2024-05-06 07:08:09", want: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), ok: true},
		{in: " 2024-05-06 ", want: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "06/05/2024", want: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "", ok: false},
		{in: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionCycle(t *testing.T) {
	assert.Equal(t, DirAsc, DirNone.Next())
	assert.Equal(t, DirDesc, DirAsc.Next())
	assert.Equal(t, DirNone, DirDesc.Next())
	assert.Equal(t, DirDesc, ParseDirection(" DESC"))
	assert.Equal(t, DirNone, ParseDirection("sideways"))
	assert.Equal(t, "asc", DirAsc.String())
}
