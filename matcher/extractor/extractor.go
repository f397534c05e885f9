package extractor

import "context"

// Extractor turns a raw biometric signal (a camera frame or an audio clip)
// into a fixed-dimension embedding.
type Extractor interface {
	Extract(ctx context.Context, signal []byte) ([]float32, error)
}
