package memory

import (
	"context"
	"sync"

	"github.com/w-h-a/identity/events"
)

// Emitter records emitted events. Useful for tests and the demo.
type Emitter struct {
	emitted []events.Event
	mtx     sync.RWMutex
}

func (m *Emitter) Emit(ctx context.Context, event events.Event) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.emitted = append(m.emitted, event)
}

func (m *Emitter) Emitted() []events.Event {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return append([]events.Event(nil), m.emitted...)
}

func NewEmitter() *Emitter {
	return &Emitter{}
}
