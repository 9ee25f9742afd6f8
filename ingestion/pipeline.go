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


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/match"
	"github.com/poiesic/answerit/storage"
)

// embedBatchSize bounds how many questions one worker embeds per call.
const embedBatchSize = 16

// Pipeline loads question/answer pairs into the knowledge base and embeds
// them concurrently.
type Pipeline struct {
	knowledgeRepository storage.KnowledgeRepository
	embedder            ai.Embedder
	pool                *ants.Pool
	maxAttempts         int
	retryDelay          time.Duration
	logger              *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

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

// WithRetry configures retry behavior for embedding calls.
// Default is 3 attempts with a 500ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	knowledgeRepository storage.KnowledgeRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if knowledgeRepository == nil {
		return nil, ErrKnowledgeRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		knowledgeRepository: knowledgeRepository,
		embedder:            provider.Embedder(),
		pool:                pool,
		maxAttempts:         3,
		retryDelay:          500 * time.Millisecond,
		logger:              slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest stores the given pairs as knowledge records and embeds them.
// Returns the number of records stored. Embedding runs concurrently and
// failures there are logged without failing the ingestion: a record without
// a vector still serves exact and lexical matches.
func (p *Pipeline) Ingest(ctx context.Context, pairs []QAPair) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	records := make([]*core.KnowledgeRecord, len(pairs))
	for i, pair := range pairs {
		records[i] = buildRecord(pair)
	}

	added, err := p.knowledgeRepository.AddRecords(ctx, records...)
	if err != nil {
		return 0, err
	}
	p.logger.Info("stored knowledge records", "records", len(added))

	p.embedRecords(ctx, added)
	return len(added), nil
}

// embedRecords embeds batches of records on the worker pool and updates them
// in place. Waits for every batch before returning so callers can exit
// safely after ingestion.
func (p *Pipeline) embedRecords(ctx context.Context, records []*core.KnowledgeRecord) {
	var wg sync.WaitGroup
	for start := 0; start < len(records); start += embedBatchSize {
		batch := records[start:min(start+embedBatchSize, len(records))]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			p.embedBatch(ctx, batch)
		})
		if err != nil {
			wg.Done()
			p.logger.Error("error submitting embedding batch", "err", err)
		}
	}
	wg.Wait()
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.KnowledgeRecord) {
	texts := make([]string, len(batch))
	for i, record := range batch {
		if len(record.NormalizedQuestions) > 0 {
			texts[i] = record.NormalizedQuestions[0]
		}
	}

	var embeddings [][]float32
	err := retryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		p.logger.Error("error generating embeddings", "records", len(batch), "err", err)
		return
	}
	if len(embeddings) != len(batch) {
		p.logger.Error("embedding result mismatch", "expected", len(batch), "received", len(embeddings))
		return
	}

	for i, record := range batch {
		record.Vector = embeddings[i]
	}

	if _, err := p.knowledgeRepository.UpdateRecords(ctx, batch...); err != nil {
		p.logger.Error("error storing embeddings", "records", len(batch), "err", err)
	}
}

// buildRecord derives the stored record from one raw pair: canonical
// question list, normalized variants, and the keyword set over every alias.
func buildRecord(pair QAPair) *core.KnowledgeRecord {
	normalized := make([]string, 0, len(pair.Questions))
	seen := make(map[string]struct{})
	keywords := make([]string, 0)

	for _, question := range pair.Questions {
		normalized = append(normalized, match.Normalize(question))
		for _, token := range match.Tokenize(question) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			keywords = append(keywords, token)
		}
	}

	return &core.KnowledgeRecord{
		Questions:           pair.Questions,
		NormalizedQuestions: normalized,
		Keywords:            keywords,
		Answer:              pair.Answer,
		Category:            pair.Category,
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
