package floatutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxSlice(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		max     float64
		indices []int
	}{
		{"single", []float64{1}, 1, []int{0}},
		{"unique", []float64{0.5, 3, -1}, 3, []int{1}},
		{"ties", []float64{2, -1, 2, 2}, 2, []int{0, 2, 3}},
		{"first is max", []float64{9, 1, 2}, 9, []int{0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			max, indices := MaxSlice(test.values)
			assert.Equal(t, test.max, max)
			assert.Equal(t, test.indices, indices)
		})
	}
}

func TestMax(t *testing.T) {
	assert.Equal(t, 4.0, Max(1, 4, -2))
	assert.Equal(t, -2.0, Max(-2))
}
