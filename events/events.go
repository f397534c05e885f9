package events

import "context"

const (
	PassphraseSuccess = "identity.passphrase.success"
	FaceSuccess       = "identity.face.success"
	VoiceSuccess      = "identity.voice.success"
)

// Event is a fire-and-forget notification about a successful recognition
// stage. Delivery is at most once; nothing in the pipeline waits on it.
type Event struct {
	Type string
	Data map[string]any
}

type Emitter interface {
	Emit(ctx context.Context, event Event)
}

func Success(eventType string, userID string, name string) Event {
	return Event{
		Type: eventType,
		Data: map[string]any{
			"user_id": userID,
			"name":    name,
		},
	}
}
