package match

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// findLexical scores every candidate alias against the query with the
// Jaccard token-set index and keeps the single best match. Candidates are
// pre-filtered by keyword overlap when the index yields anything; aliases
// sharing no token with the query score 0 under Jaccard, so the pre-filter
// cannot change which best match is found. Ties keep the first-seen
// candidate.
func (p *Pipeline) findLexical(ctx context.Context, normalized string, monitor PipelineMonitor) *core.MatchResult {
	queryTokens := Tokenize(normalized)
	if len(queryTokens) == 0 {
		return &core.MatchResult{Type: core.MatchTypeNone}
	}
	querySet := tokenSet(queryTokens)

	records, err := p.candidates.GetRecordsByKeywords(ctx, queryTokens)
	if err != nil {
		p.logger.Warn("lexical stage keyword lookup failed, falling back to full retrieval", "err", err)
		records = nil
	}
	if len(records) == 0 {
		// Records ingested without keyword sets are invisible to the index.
		records, err = p.candidates.GetAllRecords(ctx)
		if err != nil {
			p.logger.Error("lexical stage failed retrieving candidates", "err", err)
			return &core.MatchResult{Type: core.MatchTypeError}
		}
	}
	monitor.CandidatesRetrieved(StageLexical, len(records))

	var best bestMatch
	for _, record := range records {
		if record == nil {
			continue
		}
		for _, variant := range record.Questions {
			for _, alias := range splitAliases(variant) {
				sim := jaccard(querySet, tokenSet(Tokenize(alias)))
				if sim > best.similarity {
					best = bestMatch{record: record, question: alias, similarity: sim}
				}
			}
		}
	}

	if best.record == nil {
		return &core.MatchResult{Type: core.MatchTypeNone}
	}

	confidence := Confidence(best.similarity)
	result := &core.MatchResult{
		Answer:          best.record.Answer,
		Category:        best.record.Category,
		MatchedQuestion: best.question,
		RecordId:        best.record.Id,
		Similarity:      best.similarity,
		Confidence:      confidence,
		Type:            core.MatchTypeInsufficient,
	}
	if confidence >= p.lexicalThreshold {
		result.Found = true
		result.Type = core.MatchTypeSimilarity
	}
	return result
}

// bestMatch tracks the highest-scoring candidate during a scan.
type bestMatch struct {
	record     *core.KnowledgeRecord
	question   string
	similarity float64
}
