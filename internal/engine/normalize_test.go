package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsToUnitInterval(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min, max float64
		want     float64
	}{
		{"at min", 10, 10, 20, 0},
		{"at max", 20, 10, 20, 1},
		{"midpoint", 15, 10, 20, 0.5},
		{"below range clips", -5, 10, 20, 0},
		{"above range clips", 99, 10, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.value, tt.min, tt.max), 1e-9)
		})
	}
}

func TestNormalizeDegenerateRange(t *testing.T) {
	// single-valued populations collapse to the neutral fallback
	for _, v := range []float64{-3, 0, 5, 100} {
		assert.Equal(t, 0.5, Normalize(v, 5, 5))
	}
	assert.Equal(t, 0.5, Normalize(1, 10, 2)) // inverted range is degenerate too
}

func TestScoreDeterministicAndWeighted(t *testing.T) {
	a := Score(1, 1, 1, 1)
	assert.InDelta(t, 1.0, a, 1e-9)
	assert.Equal(t, a, Score(1, 1, 1, 1))

	assert.InDelta(t, 0.35, Score(1, 0, 0, 0), 1e-9)
	assert.InDelta(t, 0.25, Score(0, 1, 0, 0), 1e-9)
	assert.InDelta(t, 0.20, Score(0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 0.20, Score(0, 0, 0, 1), 1e-9)
}

func TestScoreMonotonicInEachInput(t *testing.T) {
	base := Score(0.4, 0.4, 0.4, 0)
	assert.Greater(t, Score(0.6, 0.4, 0.4, 0), base)
	assert.Greater(t, Score(0.4, 0.6, 0.4, 0), base)
	assert.Greater(t, Score(0.4, 0.4, 0.6, 0), base)
	assert.Greater(t, Score(0.4, 0.4, 0.4, 1), base)
}
