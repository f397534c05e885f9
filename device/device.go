package device

import (
	"context"
	"errors"
)

// ErrUnavailable means the device exists but cannot currently produce a
// signal. Identity stages treat it exactly like "no match".
var ErrUnavailable = errors.New("device unavailable")

// Cameras resolves a camera id from a request context to one captured
// frame. The acquisition protocol behind it is not this module's concern.
type Cameras interface {
	Frame(ctx context.Context, cameraID string) ([]byte, error)
}

// Mics resolves a mic id to one captured audio clip.
type Mics interface {
	Clip(ctx context.Context, micID string) ([]byte, error)
}
