package analytics

import (
	"context"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/match"
)

// NopRecorder discards every event. Useful for tests and one-shot CLI use.
type NopRecorder struct{}

var _ match.QueryLog = (*NopRecorder)(nil)

func (NopRecorder) Log(_ context.Context, _ *core.Query, _ *core.MatchResult) {}
