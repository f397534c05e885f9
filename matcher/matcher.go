package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConfigured is returned when a matcher is missing its extractor or
// index, e.g. when a deployment has no embedding endpoint wired up.
var ErrNotConfigured = errors.New("matcher missing extractor or index")

// Matcher turns a raw signal into an embedding via the injected extractor,
// queries the index for its nearest enrolled neighbors, and applies the
// accept/reject threshold. One Matcher instance serves one signal kind
// (faces or voices).
type Matcher struct {
	options Options
}

func (m *Matcher) Enroll(ctx context.Context, userID string, signal []byte) error {
	if m.options.Extractor == nil || m.options.Index == nil {
		return ErrNotConfigured
	}

	vector, err := m.options.Extractor.Extract(ctx, signal)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if err := m.options.Index.Upsert(ctx, userID, vector); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

func (m *Matcher) Forget(ctx context.Context, userID string) error {
	if m.options.Index == nil {
		return ErrNotConfigured
	}
	return m.options.Index.Delete(ctx, userID)
}

// Identify returns the enrolled key whose embedding is closest to the
// signal, provided the distance is within the threshold (boundary
// inclusive). A confident miss is (_, false, nil), not an error. When
// several keys are exactly as close, the lexicographically smallest wins.
func (m *Matcher) Identify(ctx context.Context, signal []byte) (string, bool, error) {
	if m.options.Extractor == nil || m.options.Index == nil {
		return "", false, ErrNotConfigured
	}

	vector, err := m.options.Extractor.Extract(ctx, signal)
	if err != nil {
		return "", false, fmt.Errorf("extract: %w", err)
	}

	results, err := m.options.Index.Query(ctx, vector, m.options.TopK)
	if err != nil {
		return "", false, fmt.Errorf("query: %w", err)
	}

	if len(results) == 0 {
		return "", false, nil
	}

	best := results[0]
	if best.Distance > m.options.Threshold {
		return "", false, nil
	}

	// query results are already ordered by distance then key, so an
	// equidistant tie means results[1] shares best.Distance
	if len(results) > 1 && results[1].Distance == best.Distance {
		slog.WarnContext(ctx, "ambiguous identity match", "accepted", best.Key, "runner_up", results[1].Key, "distance", best.Distance)
	}

	return best.Key, true, nil
}

func (m *Matcher) Threshold() float64 {
	return m.options.Threshold
}

func New(opts ...Option) *Matcher {
	options := NewOptions(opts...)

	return &Matcher{
		options: options,
	}
}
