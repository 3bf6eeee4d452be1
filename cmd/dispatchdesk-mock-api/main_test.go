package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truckline/dispatchdesk/pkg/mockbackend"
)

func TestApplyShapes(t *testing.T) {
	state := mockbackend.NewState()

	require.NoError(t, applyShapes(state, []string{"orders=paged", " trips = broken"}))
	assert.Equal(t, mockbackend.ShapePaged, state.Shape("orders"))
	assert.Equal(t, mockbackend.ShapeBroken, state.Shape("trips"))
}

func TestApplyShapesErrors(t *testing.T) {
	tests := []struct {
		name string
		pair string
		want string
	}{
		{"missing separator", "orders", "want collection=shape"},
		{"unknown collection", "drivers=array", "unknown collection"},
		{"unknown shape", "orders=xml", "unknown response shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyShapes(mockbackend.NewState(), []string{tt.pair})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
