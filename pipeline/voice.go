package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/w-h-a/identity/device"
	"github.com/w-h-a/identity/directory"
	"github.com/w-h-a/identity/events"
	"github.com/w-h-a/identity/matcher"
)

const defaultVoicePriority = 60

// voiceStage mirrors the face stage for speaker recognition: it needs a
// mic id, an unresolved identity, and a confident voiceprint match.
type voiceStage struct {
	options   StageOptions
	mics      device.Mics
	matcher   *matcher.Matcher
	directory directory.Directory
	emitter   events.Emitter
}

func (s *voiceStage) Name() string {
	return "voice"
}

func (s *voiceStage) Priority() int {
	return s.options.Priority
}

func (s *voiceStage) Evaluate(ctx context.Context, rc Context) (Context, error) {
	if rc.Resolved() || len(rc.MicID) == 0 {
		return rc, nil
	}

	clip, err := s.mics.Clip(ctx, rc.MicID)
	if errors.Is(err, device.ErrUnavailable) {
		slog.DebugContext(ctx, "mic unavailable", "mic_id", rc.MicID)
		return rc, nil
	}
	if err != nil {
		return rc, fmt.Errorf("mic %s: %w", rc.MicID, err)
	}

	userID, ok, err := s.matcher.Identify(ctx, clip)
	if err != nil {
		return rc, fmt.Errorf("voice identify: %w", err)
	}
	if !ok {
		return rc, nil
	}

	slog.InfoContext(ctx, "voice match", "user_id", userID)

	rc.UserID = userID

	name := ""
	if user, err := s.directory.Get(ctx, userID); err == nil {
		name = user.Name
	} else {
		slog.DebugContext(ctx, "no directory record for matched user", "user_id", userID, "error", err)
	}

	s.emitter.Emit(ctx, events.Success(events.VoiceSuccess, userID, name))

	return rc, nil
}

func NewVoiceStage(mics device.Mics, m *matcher.Matcher, dir directory.Directory, emitter events.Emitter, opts ...StageOption) Stage {
	options := NewStageOptions(defaultVoicePriority, opts...)

	return &voiceStage{
		options:   options,
		mics:      mics,
		matcher:   m,
		directory: dir,
		emitter:   emitter,
	}
}
