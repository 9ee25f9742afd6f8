package match

import "github.com/poiesic/answerit/core"

// Stage identifies one strategy of the matching pipeline.
type Stage string

const (
	StageExact    Stage = "exact"
	StageLexical  Stage = "lexical"
	StageSemantic Stage = "semantic"
)

// PipelineMonitor provides hooks to observe the matching process.
// Implement this interface to track which stages run, what candidates they
// see, and what each stage concluded.
type PipelineMonitor interface {
	Start(query string)
	StageStart(stage Stage)
	CandidatesRetrieved(stage Stage, count int)
	StageResult(stage Stage, result *core.MatchResult)
	Finish(result *core.MatchResult)
}

// noopMonitor is a no-op implementation of PipelineMonitor
type noopMonitor struct{}

var _ PipelineMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) StageStart(_ Stage)                       {}
func (n *noopMonitor) CandidatesRetrieved(_ Stage, _ int)       {}
func (n *noopMonitor) StageResult(_ Stage, _ *core.MatchResult) {}
func (n *noopMonitor) Finish(_ *core.MatchResult)               {}
