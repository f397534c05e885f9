package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/w-h-a/identity/directory"
	"github.com/w-h-a/identity/events"
)

const defaultPassphrasePriority = 90

// passphraseStage tags a user when one of the request's utterances exactly
// matches a stored auth phrase (case-insensitive). The matched utterance
// is consumed: a spoken passphrase never travels downstream as regular
// speech.
type passphraseStage struct {
	options   StageOptions
	directory directory.Directory
	emitter   events.Emitter
}

func (s *passphraseStage) Name() string {
	return "passphrase"
}

func (s *passphraseStage) Priority() int {
	return s.options.Priority
}

func (s *passphraseStage) Evaluate(ctx context.Context, rc Context) (Context, error) {
	if rc.Resolved() {
		return rc, nil
	}

	for i, utterance := range rc.Utterances {
		users, err := s.directory.FindByPassphrase(ctx, utterance)
		if err != nil {
			return rc, fmt.Errorf("passphrase lookup: %w", err)
		}

		if len(users) == 0 {
			continue
		}

		// multiple users can share a phrase; take the first in the
		// directory's insertion order
		user := users[0]
		if len(users) > 1 {
			slog.WarnContext(ctx, "ambiguous passphrase", "accepted", user.UserID, "candidates", len(users))
		}

		slog.InfoContext(ctx, "passphrase match", "user_id", user.UserID)

		rc.UserID = user.UserID

		// splice into fresh storage so the caller's slice is untouched
		remaining := make([]string, 0, len(rc.Utterances)-1)
		remaining = append(remaining, rc.Utterances[:i]...)
		remaining = append(remaining, rc.Utterances[i+1:]...)
		rc.Utterances = remaining

		s.emitter.Emit(ctx, events.Success(events.PassphraseSuccess, user.UserID, user.Name))

		return rc, nil
	}

	return rc, nil
}

func NewPassphraseStage(dir directory.Directory, emitter events.Emitter, opts ...StageOption) Stage {
	options := NewStageOptions(defaultPassphrasePriority, opts...)

	return &passphraseStage{
		options:   options,
		directory: dir,
		emitter:   emitter,
	}
}
