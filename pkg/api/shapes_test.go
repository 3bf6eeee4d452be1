package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCollection(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantItems int
		wantTotal int
		wantErr   bool
	}{
		{name: "bare array", body: `[{"id":"1"},{"id":"2"}]`, wantItems: 2, wantTotal: 2},
		{name: "empty array", body: ` [] `, wantItems: 0, wantTotal: 0},
		{name: "data array", body: `{"data":[{"id":"1"}],"message":"ok"}`, wantItems: 1, wantTotal: 1},
		{name: "paged envelope", body: `{"data":{"items":[{"id":"1"},{"id":"2"}],"totalCount":40}}`, wantItems: 2, wantTotal: 40},
		{name: "paged envelope without total", body: `{"data":{"items":[{"id":"1"}]}}`, wantItems: 1, wantTotal: 1},
		{name: "unknown object", body: `{"foo":1}`, wantErr: true},
		{name: "data null", body: `{"data":null}`, wantErr: true},
		{name: "data scalar", body: `{"data":"x"}`, wantErr: true},
		{name: "data object without items", body: `{"data":{"rows":[]}}`, wantErr: true},
		{name: "scalar", body: `42`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "invalid json", body: `[{"id":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := NormalizeCollection([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrShapeMismatch)
				assert.Nil(t, items)
				return
			}

			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestDecodeCollection(t *testing.T) {
	orders, total, err := DecodeCollection[Order]([]byte(`{"data":{"items":[
		{"id":"o-1","trackingCode":"ABC123","customer":{"id":"c-1","name":"Hoang Long"},"status":"pending"},
		{"id":"o-2","trackingCode":"XYZ","customer":null,"status":"completed"}
	],"totalCount":2}}`))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Hoang Long", PartyName(orders[0].Customer))
	assert.Equal(t, "", PartyName(orders[1].Customer))
	assert.Equal(t, "", PartyPhone(orders[1].Customer))

	_, _, err = DecodeCollection[Order]([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
