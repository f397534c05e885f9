package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceSelfIsZero(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 2.1},
		{5, 5, 5, 5},
	}

	for _, v := range vectors {
		dist, err := Distance(v, v, Cosine)
		require.NoError(t, err)
		assert.InDelta(t, 0, dist, 1e-6)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := []float32{0.1, 0.9, -0.4}
	b := []float32{-1.2, 0.5, 0.3}

	ab, err := Distance(a, b, Cosine)
	require.NoError(t, err)

	ba, err := Distance(b, a, Cosine)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestDistanceOppositeVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}

	dist, err := Distance(a, b, Cosine)
	require.NoError(t, err)
	assert.InDelta(t, 2, dist, 1e-6)
}

func TestDistanceOrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	dist, err := Distance(a, b, Cosine)
	require.NoError(t, err)
	assert.InDelta(t, 1, dist, 1e-6)
}

func TestDistanceDegenerateVector(t *testing.T) {
	_, err := Distance([]float32{0, 0, 0}, []float32{1, 2, 3}, Cosine)
	assert.ErrorIs(t, err, ErrDegenerateVector)

	_, err = Distance([]float32{1, 2, 3}, []float32{0, 0, 0}, Cosine)
	assert.ErrorIs(t, err, ErrDegenerateVector)
}

func TestDistanceDimensionMismatch(t *testing.T) {
	_, err := Distance([]float32{1, 2}, []float32{1, 2, 3}, Cosine)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDistanceUnsupportedMetric(t *testing.T) {
	_, err := Distance([]float32{1}, []float32{1}, Metric("euclidean"))
	assert.ErrorIs(t, err, ErrUnsupportedMetric)
}

func TestDistanceRange(t *testing.T) {
	a := []float32{0.2, -0.8, 0.4}
	b := []float32{1.5, 0.1, -0.9}

	dist, err := Distance(a, b, Cosine)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, dist, 0.0)
	assert.LessOrEqual(t, dist, 2.0)
	assert.False(t, math.IsNaN(dist))
}
