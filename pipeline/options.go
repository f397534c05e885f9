package pipeline

import "context"

type StageOption func(*StageOptions)

type StageOptions struct {
	Priority int

	// Skip session enrichment for the device-local default session, e.g.
	// when a downstream component owns it.
	IgnoreDefaultSession bool

	// Skip session enrichment for sessions started remotely, e.g. ones
	// tagged by a satellite that already applied its own preferences.
	IgnoreRemoteSessions bool

	Context context.Context
}

func WithPriority(priority int) StageOption {
	return func(o *StageOptions) {
		o.Priority = priority
	}
}

func WithIgnoreDefaultSession(ignore bool) StageOption {
	return func(o *StageOptions) {
		o.IgnoreDefaultSession = ignore
	}
}

func WithIgnoreRemoteSessions(ignore bool) StageOption {
	return func(o *StageOptions) {
		o.IgnoreRemoteSessions = ignore
	}
}

func NewStageOptions(priority int, opts ...StageOption) StageOptions {
	options := StageOptions{
		Priority: priority,
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
