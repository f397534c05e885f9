package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStage records the order it ran in and applies a canned mutation.
type fakeStage struct {
	name     string
	priority int
	ran      *[]string
	mutate   func(Context) Context
	err      error
}

func (f *fakeStage) Name() string {
	return f.name
}

func (f *fakeStage) Priority() int {
	return f.priority
}

func (f *fakeStage) Evaluate(ctx context.Context, rc Context) (Context, error) {
	*f.ran = append(*f.ran, f.name)
	if f.err != nil {
		return rc, f.err
	}
	if f.mutate != nil {
		return f.mutate(rc), nil
	}
	return rc, nil
}

func TestStagesRunInAscendingPriorityOrder(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "late", priority: 90, ran: &ran},
		&fakeStage{name: "early", priority: 50, ran: &ran},
		&fakeStage{name: "middle", priority: 60, ran: &ran},
	)

	p.Run(context.Background(), Context{})

	assert.Equal(t, []string{"early", "middle", "late"}, ran)
}

func TestEqualPrioritiesKeepRegistrationOrder(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "first", priority: 90, ran: &ran},
		&fakeStage{name: "second", priority: 90, ran: &ran},
	)

	p.Run(context.Background(), Context{})

	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestFirstMatchWins(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "assigns", priority: 50, ran: &ran, mutate: func(rc Context) Context {
			rc.UserID = "alice"
			return rc
		}},
		&fakeStage{name: "reassigns", priority: 60, ran: &ran, mutate: func(rc Context) Context {
			rc.UserID = "mallory"
			return rc
		}},
	)

	out := p.Run(context.Background(), Context{})

	// both stages ran, but the identity set first is immutable
	assert.Equal(t, []string{"assigns", "reassigns"}, ran)
	assert.Equal(t, "alice", out.UserID)
}

func TestPreAssignedIdentityIsKept(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "reassigns", priority: 50, ran: &ran, mutate: func(rc Context) Context {
			rc.UserID = "mallory"
			return rc
		}},
	)

	out := p.Run(context.Background(), Context{UserID: "alice"})

	assert.Equal(t, "alice", out.UserID)
}

func TestFailedStageDegradesToNoOp(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "broken", priority: 50, ran: &ran, err: errors.New("directory offline")},
		&fakeStage{name: "works", priority: 60, ran: &ran, mutate: func(rc Context) Context {
			rc.UserID = "alice"
			return rc
		}},
	)

	out := p.Run(context.Background(), Context{})

	// failure never aborts the pipeline
	assert.Equal(t, []string{"broken", "works"}, ran)
	assert.Equal(t, "alice", out.UserID)
}

func TestCancellationStopsFurtherStagesWithoutRollback(t *testing.T) {
	var ran []string

	ctx, cancel := context.WithCancel(context.Background())

	p := New(
		&fakeStage{name: "assigns", priority: 50, ran: &ran, mutate: func(rc Context) Context {
			cancel()
			rc.UserID = "alice"
			return rc
		}},
		&fakeStage{name: "never", priority: 60, ran: &ran},
	)

	out := p.Run(ctx, Context{})

	assert.Equal(t, []string{"assigns"}, ran)
	// the partial mutation is retained
	assert.Equal(t, "alice", out.UserID)
}

func TestRunDoesNotShareStorageWithInput(t *testing.T) {
	var ran []string

	p := New(
		&fakeStage{name: "consumes", priority: 50, ran: &ran, mutate: func(rc Context) Context {
			rc.Utterances = rc.Utterances[:0]
			return rc
		}},
	)

	in := Context{Utterances: []string{"hello there"}}

	out := p.Run(context.Background(), in)

	require.Empty(t, out.Utterances)
	assert.Equal(t, []string{"hello there"}, in.Utterances)
}
