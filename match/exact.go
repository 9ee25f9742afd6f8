package match

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// findExact compares the normalized query for string equality against every
// alias of every candidate question. First equality wins: record order and
// within-record alias order are the deterministic tie-break when a knowledge
// base carries duplicate questions mapped to different answers.
func (p *Pipeline) findExact(ctx context.Context, normalized string, monitor PipelineMonitor) *core.MatchResult {
	records, err := p.candidates.GetAllRecords(ctx)
	if err != nil {
		p.logger.Error("exact stage failed retrieving candidates", "err", err)
		return &core.MatchResult{Type: core.MatchTypeError}
	}
	monitor.CandidatesRetrieved(StageExact, len(records))

	for _, record := range records {
		if record == nil {
			continue
		}
		for _, variant := range record.Questions {
			for _, alias := range splitAliases(variant) {
				if Normalize(alias) == normalized {
					return &core.MatchResult{
						Found:           true,
						Answer:          record.Answer,
						Category:        record.Category,
						MatchedQuestion: alias,
						RecordId:        record.Id,
						Similarity:      1.0,
						Confidence:      1.0,
						Type:            core.MatchTypeExact,
					}
				}
			}
		}
	}

	return &core.MatchResult{Type: core.MatchTypeNone}
}
