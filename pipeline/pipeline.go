package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Stage is one unit of the resolution pipeline. Evaluate receives the
// request context and returns a possibly-updated copy; an error means the
// stage could not reach a collaborator and the pipeline treats it as a
// no-op. Stages run in ascending priority order.
type Stage interface {
	Name() string
	Priority() int
	Evaluate(ctx context.Context, rc Context) (Context, error)
}

// Pipeline evaluates its stages sequentially against a request context.
// The first stage to assign a user id wins; later stages still run for
// their side effects but cannot reassign the identity.
type Pipeline struct {
	stages []Stage
}

func (p *Pipeline) Run(ctx context.Context, rc Context) Context {
	tracer := otel.Tracer("github.com/w-h-a/identity/pipeline")

	ctx, span := tracer.Start(ctx, "pipeline.resolve")
	defer span.End()

	rc = rc.Clone()

	for _, stage := range p.stages {
		// cancellation stops further stages; what is already applied stays
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "pipeline cancelled", "stage", stage.Name(), "error", ctx.Err())
			break
		}

		prev := rc

		next, err := stage.Evaluate(ctx, rc.Clone())
		if err != nil {
			slog.WarnContext(ctx, "stage degraded to no-op", "stage", stage.Name(), "error", err)
			continue
		}

		// first-match-wins: a resolved identity is immutable
		if prev.Resolved() && next.UserID != prev.UserID {
			slog.WarnContext(ctx, "stage attempted to reassign user id", "stage", stage.Name(), "kept", prev.UserID, "discarded", next.UserID)
			next.UserID = prev.UserID
		}

		rc = next
	}

	span.SetAttributes(attribute.Bool("identity.resolved", rc.Resolved()))

	return rc
}

func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// New builds a pipeline from the given stages, sorted once by ascending
// priority. Equal priorities keep their registration order.
func New(stages ...Stage) *Pipeline {
	sorted := append([]Stage(nil), stages...)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	return &Pipeline{
		stages: sorted,
	}
}
