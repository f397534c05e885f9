package index

import (
	"context"
	"errors"
)

var (
	// ErrDimensionMismatch is returned when a vector's length does not
	// match the dimension the index was fixed to by its first upsert.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnsupportedMetric is returned by Distance for any metric other
	// than cosine.
	ErrUnsupportedMetric = errors.New("unsupported distance metric")

	// ErrDegenerateVector is returned when a zero-norm vector would make
	// the distance undefined.
	ErrDegenerateVector = errors.New("degenerate zero-norm vector")
)

// Result is a single nearest-neighbor hit. Distance domain depends on the
// metric; for cosine it is [0, 2] with 0 meaning identical direction.
type Result struct {
	Key      string
	Distance float64
}

// Index stores (key, embedding) pairs and answers k-nearest-neighbor
// queries. All vectors in one index share the same dimension, fixed by the
// first upsert. Results are ordered ascending by distance with ties broken
// by key ascending so that queries are reproducible.
type Index interface {
	Upsert(ctx context.Context, key string, vector []float32) error
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Query(ctx context.Context, vector []float32, k int) ([]Result, error)
	Dimension(ctx context.Context) (int, error)
}
