// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/match"
	"github.com/poiesic/answerit/storage"
)

// Recorder persists query events to an event repository. Write errors are
// logged and swallowed so the query path never depends on analytics.
type Recorder struct {
	events storage.EventRepository
	logger *slog.Logger
}

var _ match.QueryLog = (*Recorder)(nil)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder) error

// WithRecorderLogger sets a custom logger.
// Default is slog.Default().
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRecorder creates a recorder backed by the given event repository.
func NewRecorder(events storage.EventRepository, opts ...RecorderOption) (*Recorder, error) {
	if events == nil {
		return nil, ErrEventRepositoryRequired
	}

	r := &Recorder{
		events: events,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Log persists one match outcome. Best-effort.
func (r *Recorder) Log(ctx context.Context, query *core.Query, result *core.MatchResult) {
	if result == nil {
		return
	}

	event := &core.QueryEvent{
		Found:      result.Found,
		Type:       result.Type,
		Similarity: result.Similarity,
		Confidence: result.Confidence,
		Category:   result.Category,
		RecordId:   result.RecordId,
		Timestamp:  time.Now().UTC(),
	}
	if query != nil {
		event.Query = query.Text
		event.UserID = query.UserID
		event.Language = query.Language
	}

	if err := r.events.AddEvent(ctx, event); err != nil {
		r.logger.Error("failed to record query event", "query", event.Query, "err", err)
	}
}

// Recent returns the N most recent query events, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]*core.QueryEvent, error) {
	return r.events.GetRecentEvents(ctx, limit)
}
