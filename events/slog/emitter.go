package slog

import (
	"context"
	"log/slog"

	"github.com/w-h-a/identity/events"
)

// slogEmitter logs events instead of publishing them anywhere. It is the
// default sink when no message bus is wired up.
type slogEmitter struct{}

func (s *slogEmitter) Emit(ctx context.Context, event events.Event) {
	slog.InfoContext(ctx, "identity event", "type", event.Type, "data", event.Data)
}

func NewEmitter() events.Emitter {
	return &slogEmitter{}
}
