package synth

import (
	"context"

	"loom/internal/graph"
)

// StageResult records one synthesizer attempt inside a chain call.
type StageResult struct {
	Synthesizer string
	Proposals   int
	Used        bool
	Err         error
}

// Chain tries synthesizers in order and keeps the first non-empty draft.
// An error or an empty draft falls through to the next stage, so putting
// Fallback last makes the chain total.
type Chain struct {
	synths []Synthesizer
}

func NewChain(synths ...Synthesizer) *Chain {
	return &Chain{synths: synths}
}

func (c *Chain) DraftNodes(ctx context.Context, req NodeRequest) ([]graph.NodeProposal, []StageResult) {
	var results []StageResult
	for _, s := range c.synths {
		drafts, err := s.DraftNodes(ctx, req)
		res := StageResult{Synthesizer: s.Name(), Proposals: len(drafts), Err: err}
		if err == nil && len(drafts) > 0 {
			res.Used = true
			results = append(results, res)
			return drafts, results
		}
		results = append(results, res)
	}
	return nil, results
}

func (c *Chain) DraftEdges(ctx context.Context, req EdgeRequest) ([]graph.EdgeProposal, []StageResult) {
	var results []StageResult
	for _, s := range c.synths {
		drafts, err := s.DraftEdges(ctx, req)
		res := StageResult{Synthesizer: s.Name(), Proposals: len(drafts), Err: err}
		if err == nil && len(drafts) > 0 {
			res.Used = true
			results = append(results, res)
			return drafts, results
		}
		results = append(results, res)
	}
	return nil, results
}
