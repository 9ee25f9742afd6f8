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


package match

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// Policy constants. Thresholds and scan bounds are configurable via options;
// these are the defaults.
const (
	// DefaultLexicalThreshold is the minimum confidence for a lexical match.
	DefaultLexicalThreshold = 0.75

	// DefaultSemanticThreshold is the minimum cosine similarity for a
	// semantic match. Stricter than lexical because embedding similarity is
	// higher-variance.
	DefaultSemanticThreshold = 0.80

	// DefaultPageSize bounds each page of the semantic full scan.
	DefaultPageSize = 200

	// DefaultPageDelay spaces out pages of the semantic full scan so the
	// scan does not overload the backing store.
	DefaultPageDelay = 50 * time.Millisecond

	// DefaultStageTimeout bounds each pipeline stage.
	DefaultStageTimeout = 10 * time.Second

	// earlyExitSimilarity stops the semantic full scan once a candidate
	// scores this high; later pages cannot meaningfully improve on it.
	earlyExitSimilarity = 0.95
)

// errorCategory labels results for queries that never reached the knowledge base.
const errorCategory = "error"

// QueryLog records match outcomes for analytics. Best-effort: the pipeline
// never waits on it and implementations swallow their own errors.
type QueryLog interface {
	Log(ctx context.Context, query *core.Query, result *core.MatchResult)
}

// Pipeline matches user queries against the knowledge base, escalating
// through exact, lexical and semantic strategies in that order. Safe for
// concurrent use: the knowledge base is read-only at query time and all
// per-query state is local.
type Pipeline struct {
	candidates storage.CandidateSource
	embedder   ai.Embedder
	queryLog   QueryLog
	logger     *slog.Logger

	lexicalThreshold  float64
	semanticThreshold float64
	pageSize          int
	pageDelay         time.Duration
	stageTimeout      time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithQueryLog sets the analytics log invoked once per query with the final
// result. Default is none.
func WithQueryLog(queryLog QueryLog) Option {
	return func(p *Pipeline) error {
		p.queryLog = queryLog
		return nil
	}
}

// WithLexicalThreshold sets the minimum confidence for a lexical match.
func WithLexicalThreshold(threshold float64) Option {
	return func(p *Pipeline) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		p.lexicalThreshold = threshold
		return nil
	}
}

// WithSemanticThreshold sets the minimum cosine similarity for a semantic match.
func WithSemanticThreshold(threshold float64) Option {
	return func(p *Pipeline) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		p.semanticThreshold = threshold
		return nil
	}
}

// WithPageSize sets the page size for the semantic full scan.
func WithPageSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return ErrInvalidPageSize
		}
		p.pageSize = size
		return nil
	}
}

// WithPageDelay sets the delay between pages of the semantic full scan.
// Zero disables the delay.
func WithPageDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		p.pageDelay = delay
		return nil
	}
}

// WithStageTimeout bounds each pipeline stage. Zero disables the timeout.
func WithStageTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.stageTimeout = timeout
		return nil
	}
}

// NewPipeline creates a new matching pipeline.
func NewPipeline(
	candidates storage.CandidateSource,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if candidates == nil {
		return nil, ErrCandidateSourceRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		candidates:        candidates,
		embedder:          provider.Embedder(),
		logger:            slog.Default(),
		lexicalThreshold:  DefaultLexicalThreshold,
		semanticThreshold: DefaultSemanticThreshold,
		pageSize:          DefaultPageSize,
		pageDelay:         DefaultPageDelay,
		stageTimeout:      DefaultStageTimeout,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Match answers one query. It never fails: any internal error degrades to a
// not-found result with match type "error".
func (p *Pipeline) Match(ctx context.Context, query *core.Query) *core.MatchResult {
	return p.MatchWithMonitor(ctx, query, nil)
}

// MatchWithMonitor answers one query with monitoring. The monitor receives
// callbacks as stages start, retrieve candidates, and conclude.
func (p *Pipeline) MatchWithMonitor(ctx context.Context, query *core.Query, monitor PipelineMonitor) *core.MatchResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	var text string
	if query != nil {
		text = query.Text
	}
	monitor.Start(text)

	result := p.run(ctx, text, monitor)
	monitor.Finish(result)

	if p.queryLog != nil {
		p.queryLog.Log(ctx, query, result)
	}
	return result
}

// run executes the escalation state machine. Stage order is fixed: exact,
// then lexical, then semantic. The first found result wins; later stages
// never run after a hit. If every stage misses, the returned result carries
// the best similarity and confidence observed across all stages.
func (p *Pipeline) run(ctx context.Context, text string, monitor PipelineMonitor) *core.MatchResult {
	normalized := Normalize(text)
	if normalized == "" {
		// Input error: no collaborator is contacted for an empty query.
		return &core.MatchResult{
			Category: errorCategory,
			Type:     core.MatchTypeNone,
		}
	}

	stages := []struct {
		stage Stage
		run   func(context.Context, string, PipelineMonitor) *core.MatchResult
	}{
		{StageExact, p.findExact},
		{StageLexical, p.findLexical},
		{StageSemantic, p.findSemantic},
	}

	var best *core.MatchResult
	for _, s := range stages {
		monitor.StageStart(s.stage)
		result := p.runStage(ctx, s.stage, normalized, s.run, monitor)
		monitor.StageResult(s.stage, result)

		if result.Found {
			return result
		}
		if best == nil || result.Similarity > best.Similarity {
			best = result
		}
	}
	if best.Type == core.MatchTypeError {
		// Every stage failed outright.
		best.Category = errorCategory
	}
	return best
}

// runStage runs one strategy with a bounded timeout and panic containment.
// A failing stage degrades to not-found so the next stage still gets its turn.
func (p *Pipeline) runStage(
	ctx context.Context,
	stage Stage,
	normalized string,
	run func(context.Context, string, PipelineMonitor) *core.MatchResult,
	monitor PipelineMonitor,
) (result *core.MatchResult) {
	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("match stage panicked", "stage", stage, "panic", r)
			result = &core.MatchResult{Type: core.MatchTypeError}
		}
	}()

	return run(ctx, normalized, monitor)
}
