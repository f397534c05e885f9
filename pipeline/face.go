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

const defaultFacePriority = 50

// faceStage runs face recognition when the request carries a camera id
// and no identity yet. Anything short of a confident match, including an
// unavailable camera, leaves the context untouched.
type faceStage struct {
	options   StageOptions
	cameras   device.Cameras
	matcher   *matcher.Matcher
	directory directory.Directory
	emitter   events.Emitter
}

func (s *faceStage) Name() string {
	return "face"
}

func (s *faceStage) Priority() int {
	return s.options.Priority
}

func (s *faceStage) Evaluate(ctx context.Context, rc Context) (Context, error) {
	if rc.Resolved() || len(rc.CameraID) == 0 {
		return rc, nil
	}

	frame, err := s.cameras.Frame(ctx, rc.CameraID)
	if errors.Is(err, device.ErrUnavailable) {
		slog.DebugContext(ctx, "camera unavailable", "camera_id", rc.CameraID)
		return rc, nil
	}
	if err != nil {
		return rc, fmt.Errorf("camera %s: %w", rc.CameraID, err)
	}

	userID, ok, err := s.matcher.Identify(ctx, frame)
	if err != nil {
		return rc, fmt.Errorf("face identify: %w", err)
	}
	if !ok {
		return rc, nil
	}

	slog.InfoContext(ctx, "face match", "user_id", userID)

	rc.UserID = userID

	name := ""
	if user, err := s.directory.Get(ctx, userID); err == nil {
		name = user.Name
	} else {
		slog.DebugContext(ctx, "no directory record for matched user", "user_id", userID, "error", err)
	}

	s.emitter.Emit(ctx, events.Success(events.FaceSuccess, userID, name))

	return rc, nil
}

func NewFaceStage(cameras device.Cameras, m *matcher.Matcher, dir directory.Directory, emitter events.Emitter, opts ...StageOption) Stage {
	options := NewStageOptions(defaultFacePriority, opts...)

	return &faceStage{
		options:   options,
		cameras:   cameras,
		matcher:   m,
		directory: dir,
		emitter:   emitter,
	}
}
