package pipeline

import (
	"context"
	"fmt"

	"github.com/w-h-a/identity/directory"
	"github.com/w-h-a/identity/session"
)

const defaultSessionPreferencePriority = 90

// sessionPreferenceStage projects a resolved user's stored preferences
// onto the request's session. It never assigns an identity itself and can
// be scoped to local-only or remote-only sessions through its options;
// setting both flags disables it entirely.
type sessionPreferenceStage struct {
	options   StageOptions
	directory directory.Directory
	merger    *session.Merger
}

func (s *sessionPreferenceStage) Name() string {
	return "session-preference"
}

func (s *sessionPreferenceStage) Priority() int {
	return s.options.Priority
}

func (s *sessionPreferenceStage) Evaluate(ctx context.Context, rc Context) (Context, error) {
	if !rc.Resolved() {
		return rc, nil
	}

	sess, err := session.Deserialize(rc.Session)
	if err != nil {
		return rc, fmt.Errorf("session preference: %w", err)
	}

	if s.options.IgnoreDefaultSession && sess.SessionID == session.DefaultID {
		return rc, nil
	}
	if s.options.IgnoreRemoteSessions && sess.SessionID != session.DefaultID {
		return rc, nil
	}

	user, err := s.directory.Get(ctx, rc.UserID)
	if err != nil {
		return rc, fmt.Errorf("session preference lookup %s: %w", rc.UserID, err)
	}

	merged := s.merger.Merge(sess, user)

	raw, err := merged.Serialize()
	if err != nil {
		return rc, fmt.Errorf("session preference: %w", err)
	}

	rc.Session = raw

	return rc, nil
}

func NewSessionPreferenceStage(dir directory.Directory, merger *session.Merger, opts ...StageOption) Stage {
	options := NewStageOptions(defaultSessionPreferencePriority, opts...)

	return &sessionPreferenceStage{
		options:   options,
		directory: dir,
		merger:    merger,
	}
}
