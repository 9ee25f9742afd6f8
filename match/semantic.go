package match

import (
	"context"
	"math"
	"time"

	"github.com/poiesic/answerit/core"
)

// findSemantic embeds the query and compares it against candidate embeddings
// by cosine similarity, narrowing the candidate set in stages before paying
// for a full scan:
//
//  1. Keyword pre-filter: candidates sharing query tokens.
//  2. Category filter: candidates in the query's detected category.
//  3. Paginated full scan with early exit and inter-page delay.
//
// A stage's result is accepted once the running best clears the semantic
// threshold; otherwise the next stage runs, and after all stages the best
// seen across every stage is reported.
func (p *Pipeline) findSemantic(ctx context.Context, normalized string, monitor PipelineMonitor) *core.MatchResult {
	queryVector, err := p.embedder.EmbedText(ctx, normalized)
	if err != nil {
		p.logger.Error("semantic stage failed embedding query", "err", err)
		return &core.MatchResult{Type: core.MatchTypeError}
	}

	queryTokens := Tokenize(normalized)
	var best bestMatch

	// 1. Keyword pre-filter
	if len(queryTokens) > 0 {
		records, err := p.candidates.GetRecordsByKeywords(ctx, queryTokens)
		if err != nil {
			p.logger.Warn("semantic stage keyword lookup failed", "err", err)
		} else if len(records) > 0 {
			monitor.CandidatesRetrieved(StageSemantic, len(records))
			best = scanVectors(queryVector, records, best)
			if best.similarity >= p.semanticThreshold {
				return p.semanticResult(best)
			}
		}
	}

	// 2. Category filter
	if category := detectCategory(queryTokens); category != "" {
		records, err := p.candidates.GetRecordsByCategory(ctx, category)
		if err != nil {
			p.logger.Warn("semantic stage category lookup failed", "category", category, "err", err)
		} else if len(records) > 0 {
			monitor.CandidatesRetrieved(StageSemantic, len(records))
			best = scanVectors(queryVector, records, best)
			if best.similarity >= p.semanticThreshold {
				return p.semanticResult(best)
			}
		}
	}

	// 3. Paginated full scan
	cursor := ""
	for {
		records, next, err := p.candidates.GetRecordPage(ctx, cursor, p.pageSize)
		if err != nil {
			p.logger.Error("semantic stage full scan failed", "cursor", cursor, "err", err)
			break
		}
		monitor.CandidatesRetrieved(StageSemantic, len(records))
		best = scanVectors(queryVector, records, best)

		if best.similarity >= earlyExitSimilarity || next == "" {
			break
		}
		cursor = next

		if p.pageDelay > 0 {
			select {
			case <-ctx.Done():
				p.logger.Warn("semantic stage full scan cancelled", "err", ctx.Err())
				return p.semanticResult(best)
			case <-time.After(p.pageDelay):
			}
		}
	}

	return p.semanticResult(best)
}

// semanticResult builds the stage result from the best candidate seen so far.
func (p *Pipeline) semanticResult(best bestMatch) *core.MatchResult {
	if best.record == nil {
		return &core.MatchResult{Type: core.MatchTypeNone}
	}

	result := &core.MatchResult{
		Answer:          best.record.Answer,
		Category:        best.record.Category,
		MatchedQuestion: best.question,
		RecordId:        best.record.Id,
		Similarity:      best.similarity,
		Confidence:      Confidence(best.similarity),
		Type:            core.MatchTypeInsufficientSemantic,
	}
	if best.similarity >= p.semanticThreshold {
		result.Found = true
		result.Type = core.MatchTypeSemantic
	}
	return result
}

// scanVectors folds a batch of candidates into the running best match.
// Candidates without a precomputed embedding are skipped. Strict comparison
// keeps the first-seen candidate on ties.
func scanVectors(queryVector []float32, records []*core.KnowledgeRecord, best bestMatch) bestMatch {
	for _, record := range records {
		if record == nil || len(record.Vector) == 0 {
			continue
		}
		sim := cosineSimilarity(queryVector, record.Vector)
		if sim > best.similarity {
			best = bestMatch{record: record, question: primaryQuestion(record), similarity: sim}
		}
	}
	return best
}

// primaryQuestion returns the first alias of the first question variant.
func primaryQuestion(record *core.KnowledgeRecord) string {
	for _, variant := range record.Questions {
		if aliases := splitAliases(variant); len(aliases) > 0 {
			return aliases[0]
		}
	}
	return ""
}

// cosineSimilarity is the dot product of two vectors divided by the product
// of their norms, clamped to [0,1]. Zero when either norm is zero or the
// dimensions disagree; never NaN.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1, math.Max(0, sim))
}
