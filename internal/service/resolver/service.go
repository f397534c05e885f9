package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/w-h-a/identity/directory"
	"github.com/w-h-a/identity/matcher"
	"github.com/w-h-a/identity/pipeline"
)

// Service fronts the resolution pipeline and the enrollment surface for
// transports and binaries.
type Service struct {
	pipeline  *pipeline.Pipeline
	directory directory.Directory
	faces     *matcher.Matcher
	voices    *matcher.Matcher
}

func (s *Service) Resolve(ctx context.Context, rc pipeline.Context) pipeline.Context {
	return s.pipeline.Run(ctx, rc)
}

func (s *Service) EnrollFace(ctx context.Context, userID string, frame []byte) error {
	return s.enroll(ctx, s.faces, userID, frame)
}

func (s *Service) EnrollVoice(ctx context.Context, userID string, clip []byte) error {
	return s.enroll(ctx, s.voices, userID, clip)
}

func (s *Service) enroll(ctx context.Context, m *matcher.Matcher, userID string, signal []byte) error {
	// only known users can be enrolled
	if _, err := s.directory.Get(ctx, userID); err != nil {
		return fmt.Errorf("enroll %s: %w", userID, err)
	}

	if m == nil {
		return errors.New("matcher not configured")
	}

	return m.Enroll(ctx, userID, signal)
}

func (s *Service) Directory() directory.Directory {
	return s.directory
}

func New(p *pipeline.Pipeline, dir directory.Directory, faces *matcher.Matcher, voices *matcher.Matcher) *Service {
	return &Service{
		pipeline:  p,
		directory: dir,
		faces:     faces,
		voices:    voices,
	}
}
