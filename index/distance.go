package index

import "math"

type Metric string

const (
	// Cosine distance: 1 - dot(a, b) / (norm(a) * norm(b)). Range [0, 2].
	Cosine Metric = "cosine"
)

// Distance computes the distance between two vectors under the given
// metric. Zero-norm inputs are rejected rather than dividing by zero.
func Distance(a, b []float32, metric Metric) (float64, error) {
	if metric != Cosine {
		return 0, ErrUnsupportedMetric
	}

	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateVector
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}
