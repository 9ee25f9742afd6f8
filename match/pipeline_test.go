package match

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is an in-memory CandidateSource with per-method call counters
// and optional error injection.
type stubSource struct {
	records []*core.KnowledgeRecord
	err     error

	allCalls      int
	keywordCalls  int
	categoryCalls int
	pageCalls     int
}

var _ storage.CandidateSource = (*stubSource)(nil)

func (s *stubSource) GetAllRecords(_ context.Context) ([]*core.KnowledgeRecord, error) {
	s.allCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) GetRecordsByKeywords(_ context.Context, tokens []string) ([]*core.KnowledgeRecord, error) {
	s.keywordCalls++
	if s.err != nil {
		return nil, s.err
	}
	query := tokenSet(tokens)
	var matched []*core.KnowledgeRecord
	for _, record := range s.records {
		for _, kw := range record.Keywords {
			if _, ok := query[kw]; ok {
				matched = append(matched, record)
				break
			}
		}
	}
	return matched, nil
}

func (s *stubSource) GetRecordsByCategory(_ context.Context, category string) ([]*core.KnowledgeRecord, error) {
	s.categoryCalls++
	if s.err != nil {
		return nil, s.err
	}
	var matched []*core.KnowledgeRecord
	for _, record := range s.records {
		if record.Category == category {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (s *stubSource) GetRecordPage(_ context.Context, cursor string, limit int) ([]*core.KnowledgeRecord, string, error) {
	s.pageCalls++
	if s.err != nil {
		return nil, "", s.err
	}
	return s.records, "", nil
}

func (s *stubSource) totalCalls() int {
	return s.allCalls + s.keywordCalls + s.categoryCalls + s.pageCalls
}

// pagingSource serves GetRecordPage in real limit-sized pages, with the
// cursor encoding the next record offset.
type pagingSource struct {
	stubSource
}

func (s *pagingSource) GetRecordPage(_ context.Context, cursor string, limit int) ([]*core.KnowledgeRecord, string, error) {
	s.pageCalls++
	start := 0
	if cursor != "" {
		var err error
		start, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, "", err
		}
	}
	end := start + limit
	if end >= len(s.records) {
		return s.records[start:], "", nil
	}
	return s.records[start:end], strconv.Itoa(end), nil
}

// countLog records every Log invocation.
type countLog struct {
	calls int
	last  *core.MatchResult
}

func (l *countLog) Log(_ context.Context, _ *core.Query, result *core.MatchResult) {
	l.calls++
	l.last = result
}

// countMonitor records stage activity.
type countMonitor struct {
	startedQuery  string
	stagesStarted []Stage
	finishCalls   int
}

func (m *countMonitor) Start(query string)                       { m.startedQuery = query }
func (m *countMonitor) StageStart(stage Stage)                   { m.stagesStarted = append(m.stagesStarted, stage) }
func (m *countMonitor) CandidatesRetrieved(_ Stage, _ int)       {}
func (m *countMonitor) StageResult(_ Stage, _ *core.MatchResult) {}
func (m *countMonitor) Finish(_ *core.MatchResult)               { m.finishCalls++ }

func TestNewPipeline(t *testing.T) {
	source := &stubSource{}
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		pipeline, err := NewPipeline(source, provider)
		require.NoError(t, err)
		assert.NotNil(t, pipeline)
	})

	t.Run("nil candidate source", func(t *testing.T) {
		_, err := NewPipeline(nil, provider)
		assert.Equal(t, ErrCandidateSourceRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(source, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := NewPipeline(source, provider, WithLexicalThreshold(1.5))
		assert.Equal(t, ErrInvalidThreshold, err)

		_, err = NewPipeline(source, provider, WithSemanticThreshold(-0.1))
		assert.Equal(t, ErrInvalidThreshold, err)
	})

	t.Run("invalid page size", func(t *testing.T) {
		_, err := NewPipeline(source, provider, WithPageSize(0))
		assert.Equal(t, ErrInvalidPageSize, err)
	})
}

func TestMatch_ExactAccented(t *testing.T) {
	knowledgeRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		eventRepo.Close()
		knowledgeRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = knowledgeRepo.AddRecords(ctx, &core.KnowledgeRecord{
		Questions: []string{"xin chào, chào bạn"},
		Keywords:  Tokenize("xin chào chào bạn"),
		Answer:    "Hello!",
	})
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder)

	pipeline, err := NewPipeline(knowledgeRepo, provider)
	require.NoError(t, err)

	monitor := &countMonitor{}
	result := pipeline.MatchWithMonitor(ctx, &core.Query{Text: "Xin Chào"}, monitor)

	assert.True(t, result.Found)
	assert.Equal(t, core.MatchTypeExact, result.Type)
	assert.Equal(t, "Hello!", result.Answer)
	assert.Equal(t, "xin chào", result.MatchedQuestion)
	assert.Equal(t, 1.0, result.Similarity)
	assert.Equal(t, 1.0, result.Confidence)

	// Cost avoidance: later stages never run after an exact hit.
	assert.Equal(t, []Stage{StageExact}, monitor.stagesStarted)
	assert.Equal(t, 0, embedder.CallCount())
	assert.Equal(t, 1, monitor.finishCalls)
}

func TestMatch_ExactFirstMatchWins(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{Id: 1, Questions: []string{"opening hours"}, Answer: "9-5"},
		{Id: 2, Questions: []string{"opening hours"}, Answer: "24/7"},
	}}
	pipeline, err := NewPipeline(source, mock.NewMockProvider())
	require.NoError(t, err)

	result := pipeline.Match(context.Background(), &core.Query{Text: "Opening Hours"})

	require.True(t, result.Found)
	assert.Equal(t, "9-5", result.Answer)
	assert.Equal(t, core.ID(1), result.RecordId)
}

func TestMatch_LexicalAcceptance(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{
			Id:        10,
			Questions: []string{"how do i reset my password"},
			Keywords:  Tokenize("how do i reset my password"),
			Answer:    "Use the forgot-password link.",
			Category:  "account",
		},
	}}
	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)

	// 4 of 5 tokens shared: Jaccard 0.8, confidence band 0.85.
	result := pipeline.Match(context.Background(), &core.Query{Text: "how do i reset password"})

	require.True(t, result.Found)
	assert.Equal(t, core.MatchTypeSimilarity, result.Type)
	assert.Equal(t, "Use the forgot-password link.", result.Answer)
	assert.InDelta(t, 0.8, result.Similarity, 1e-9)
	assert.Equal(t, 0.85, result.Confidence)

	// Semantic stage never ran.
	assert.Equal(t, 0, embedder.CallCount())
	assert.Equal(t, 0, source.pageCalls)
}

func TestMatch_EmptyQuery(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{Questions: []string{"anything"}, Answer: "something"},
	}}
	embedder := mock.NewMockEmbedder()
	queryLog := &countLog{}
	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder), WithQueryLog(queryLog))
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "?!..."} {
		result := pipeline.Match(context.Background(), &core.Query{Text: text})

		assert.False(t, result.Found)
		assert.Equal(t, 0.0, result.Confidence)
		assert.Equal(t, "error", result.Category)
	}

	// No retrieval or embedding collaborator was contacted.
	assert.Equal(t, 0, source.totalCalls())
	assert.Equal(t, 0, embedder.CallCount())
	assert.Equal(t, 3, queryLog.calls)
}

func TestMatch_SemanticAcceptance(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{
			Id:        7,
			Questions: []string{"store return policy"},
			Keywords:  Tokenize("store return policy"),
			Answer:    "Returns within 30 days.",
			Category:  "general",
			Vector:    []float32{1, 0},
		},
	}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		// Cosine against the stored vector is 0.82, above the 0.80 threshold.
		return []float32{0.82, 0.5723635}, nil
	}
	queryLog := &countLog{}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder),
		WithQueryLog(queryLog), WithPageDelay(0))
	require.NoError(t, err)

	// Shares no tokens with the stored question, so exact and lexical miss.
	result := pipeline.Match(context.Background(), &core.Query{Text: "completely different wording"})

	require.True(t, result.Found)
	assert.Equal(t, core.MatchTypeSemantic, result.Type)
	assert.Equal(t, "Returns within 30 days.", result.Answer)
	assert.Equal(t, "store return policy", result.MatchedQuestion)
	assert.InDelta(t, 0.82, result.Similarity, 0.001)
	assert.Equal(t, 0.85, result.Confidence)

	// The logger saw exactly this result, exactly once.
	assert.Equal(t, 1, queryLog.calls)
	assert.Same(t, result, queryLog.last)
}

func TestMatch_SemanticFullScanPaging(t *testing.T) {
	// No record shares tokens or a detectable category with the query, so the
	// semantic stage has to walk the paginated full scan. The only acceptable
	// match sits on the last page.
	source := &pagingSource{stubSource: stubSource{records: []*core.KnowledgeRecord{
		{Id: 11, Questions: []string{"payment methods"}, Keywords: Tokenize("payment methods"), Answer: "Cards or transfer.", Vector: []float32{0, 1}},
		{Id: 12, Questions: []string{"opening hours"}, Keywords: Tokenize("opening hours"), Answer: "9 to 5.", Vector: []float32{0, 1}},
		{Id: 13, Questions: []string{"store return policy"}, Keywords: Tokenize("store return policy"), Answer: "Returns within 30 days.", Vector: []float32{1, 0}},
	}}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		// Unit vector: cosine 0.5723635 against [0,1], 0.82 against [1,0].
		return []float32{0.82, 0.5723635}, nil
	}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder),
		WithPageSize(1), WithPageDelay(0))
	require.NoError(t, err)

	result := pipeline.Match(context.Background(), &core.Query{Text: "completely different wording"})

	require.True(t, result.Found)
	assert.Equal(t, core.MatchTypeSemantic, result.Type)
	assert.Equal(t, core.ID(13), result.RecordId)
	assert.Equal(t, "Returns within 30 days.", result.Answer)
	assert.InDelta(t, 0.82, result.Similarity, 0.001)

	// The scan walked every page and never consulted the category index.
	assert.Equal(t, 3, source.pageCalls)
	assert.Equal(t, 0, source.categoryCalls)
}

func TestMatch_SemanticFullScanEarlyExit(t *testing.T) {
	// The first page holds a near-identical vector, so the scan must stop
	// there instead of paying for the remaining pages.
	source := &pagingSource{stubSource: stubSource{records: []*core.KnowledgeRecord{
		{Id: 21, Questions: []string{"store return policy"}, Keywords: Tokenize("store return policy"), Answer: "Returns within 30 days.", Vector: []float32{0.82, 0.5723635}},
		{Id: 22, Questions: []string{"payment methods"}, Keywords: Tokenize("payment methods"), Answer: "Cards or transfer.", Vector: []float32{0, 1}},
		{Id: 23, Questions: []string{"opening hours"}, Keywords: Tokenize("opening hours"), Answer: "9 to 5.", Vector: []float32{0, 1}},
	}}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{0.82, 0.5723635}, nil
	}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder),
		WithPageSize(1), WithPageDelay(0))
	require.NoError(t, err)

	result := pipeline.Match(context.Background(), &core.Query{Text: "completely different wording"})

	require.True(t, result.Found)
	assert.Equal(t, core.MatchTypeSemantic, result.Type)
	assert.Equal(t, core.ID(21), result.RecordId)
	assert.InDelta(t, 1.0, result.Similarity, 0.001)
	assert.Equal(t, 1, source.pageCalls)
}

func TestMatch_SemanticCategoryNarrowing(t *testing.T) {
	// The query's tokens signal the pricing category but intersect none of the
	// record's keywords, so only the category filter can surface the match.
	source := &stubSource{records: []*core.KnowledgeRecord{
		{
			Id:        31,
			Questions: []string{"how much does it cost"},
			Keywords:  Tokenize("how much does it cost"),
			Answer:    "Pricing starts at 100k VND.",
			Category:  "pricing",
			Vector:    []float32{1, 0},
		},
	}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{0.82, 0.5723635}, nil
	}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder), WithPageDelay(0))
	require.NoError(t, err)

	result := pipeline.Match(context.Background(), &core.Query{Text: "gia bao nhieu"})

	require.True(t, result.Found)
	assert.Equal(t, core.MatchTypeSemantic, result.Type)
	assert.Equal(t, "Pricing starts at 100k VND.", result.Answer)
	assert.InDelta(t, 0.82, result.Similarity, 0.001)

	// The category index answered before the full scan started.
	assert.Equal(t, 1, source.categoryCalls)
	assert.Equal(t, 0, source.pageCalls)
}

func TestMatch_BestAcrossStagesOnTotalMiss(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{
			Id:        3,
			Questions: []string{"what is my name"},
			Keywords:  Tokenize("what is my name"),
			Answer:    "I am answerit.",
			Vector:    []float32{1, 0},
		},
	}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		// Cosine against the stored vector is 0.1, well below threshold.
		return []float32{0.1, 0.9949874}, nil
	}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder), WithPageDelay(0))
	require.NoError(t, err)

	// Lexical best is 3/5 = 0.6, below the 0.75 threshold; semantic best is
	// 0.1. The final result carries the lexical score, not the last stage's.
	result := pipeline.Match(context.Background(), &core.Query{Text: "what is your name"})

	assert.False(t, result.Found)
	assert.Equal(t, core.MatchTypeInsufficient, result.Type)
	assert.InDelta(t, 0.6, result.Similarity, 1e-9)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	assert.Equal(t, "what is my name", result.MatchedQuestion)
}

func TestMatch_StageErrorsDegrade(t *testing.T) {
	source := &stubSource{err: errors.New("store unreachable")}
	pipeline, err := NewPipeline(source, mock.NewMockProvider(), WithPageDelay(0))
	require.NoError(t, err)

	result := pipeline.Match(context.Background(), &core.Query{Text: "hello there"})

	assert.False(t, result.Found)
	assert.Equal(t, core.MatchTypeError, result.Type)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "error", result.Category)

	// Every stage got its turn despite the failures.
	assert.GreaterOrEqual(t, source.allCalls, 2)
	assert.GreaterOrEqual(t, source.pageCalls, 1)
}

func TestMatch_EmbedderErrorDegradesSemanticOnly(t *testing.T) {
	source := &stubSource{records: []*core.KnowledgeRecord{
		{Questions: []string{"refund policy details"}, Keywords: Tokenize("refund policy details"), Answer: "No refunds.", Vector: []float32{1, 0}},
	}}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	}

	pipeline, err := NewPipeline(source, mock.NewMockProviderWithEmbedder(embedder), WithPageDelay(0))
	require.NoError(t, err)

	// Lexical still produces the best observed score.
	result := pipeline.Match(context.Background(), &core.Query{Text: "refund timeline"})

	assert.False(t, result.Found)
	assert.Equal(t, core.MatchTypeInsufficient, result.Type)
	assert.InDelta(t, 0.25, result.Similarity, 1e-9)
}

func TestMatchWithMonitor_StageOrder(t *testing.T) {
	source := &stubSource{}
	pipeline, err := NewPipeline(source, mock.NewMockProvider(), WithPageDelay(0))
	require.NoError(t, err)

	monitor := &countMonitor{}
	result := pipeline.MatchWithMonitor(context.Background(), &core.Query{Text: "anything at all"}, monitor)

	assert.False(t, result.Found)
	assert.Equal(t, "anything at all", monitor.startedQuery)
	assert.Equal(t, []Stage{StageExact, StageLexical, StageSemantic}, monitor.stagesStarted)
	assert.Equal(t, 1, monitor.finishCalls)
}
