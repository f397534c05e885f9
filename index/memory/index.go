package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/w-h-a/identity/index"
)

type memoryIndex struct {
	options   index.Options
	vectors   map[string][]float32
	dimension int
	mtx       sync.RWMutex
}

func (m *memoryIndex) Upsert(ctx context.Context, key string, vector []float32) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	// an empty first vector would leave the dimension unfixed
	if len(vector) == 0 {
		return index.ErrDegenerateVector
	}

	if m.dimension == 0 {
		m.dimension = len(vector)
	} else if len(vector) != m.dimension {
		return index.ErrDimensionMismatch
	}

	cpy := make([]float32, len(vector))
	copy(cpy, vector)

	m.vectors[key] = cpy

	return nil
}

func (m *memoryIndex) Delete(ctx context.Context, key string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.vectors, key)
	return nil
}

func (m *memoryIndex) Get(ctx context.Context, key string) ([]float32, bool, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	vec, ok := m.vectors[key]
	if !ok {
		return nil, false, nil
	}

	cpy := make([]float32, len(vec))
	copy(cpy, vec)

	return cpy, true, nil
}

func (m *memoryIndex) Query(ctx context.Context, vector []float32, k int) ([]index.Result, error) {
	if k < 1 {
		return nil, nil
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if m.dimension != 0 && len(vector) != m.dimension {
		return nil, index.ErrDimensionMismatch
	}

	candidates := make([]index.Result, 0, len(m.vectors))

	for key, vec := range m.vectors {
		dist, err := index.Distance(vector, vec, m.options.Metric)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, index.Result{Key: key, Distance: dist})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Key < candidates[j].Key
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

func (m *memoryIndex) Dimension(ctx context.Context) (int, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.dimension, nil
}

func NewIndex(opts ...index.Option) index.Index {
	options := index.NewOptions(opts...)

	m := &memoryIndex{
		options: options,
		vectors: map[string][]float32{},
		mtx:     sync.RWMutex{},
	}

	return m
}
