package memory

import (
	"context"
	"sync"

	"github.com/w-h-a/identity/device"
)

// Devices serves pre-loaded frames and clips keyed by device id.
type Devices struct {
	frames map[string][]byte
	clips  map[string][]byte
	mtx    sync.RWMutex
}

func (m *Devices) Frame(ctx context.Context, cameraID string) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	frame, ok := m.frames[cameraID]
	if !ok {
		return nil, device.ErrUnavailable
	}

	return frame, nil
}

func (m *Devices) Clip(ctx context.Context, micID string) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	clip, ok := m.clips[micID]
	if !ok {
		return nil, device.ErrUnavailable
	}

	return clip, nil
}

func (m *Devices) SetFrame(cameraID string, frame []byte) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.frames[cameraID] = frame
}

func (m *Devices) SetClip(micID string, clip []byte) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.clips[micID] = clip
}

func NewDevices() *Devices {
	return &Devices{
		frames: map[string][]byte{},
		clips:  map[string][]byte{},
	}
}
