// Package synth drafts graph proposals. Synthesizers are untrusted by
// design: everything they produce goes through the mutator's validation, so
// a sloppy draft costs a rejection, never a corrupt graph.
package synth

import (
	"context"

	"loom/internal/graph"
)

// NodeRequest sizes the node drafting pass.
type NodeRequest struct {
	Topic    string
	Concepts int
	Outcomes int
}

// EdgeRequest sizes the edge drafting pass over the accepted inventory.
type EdgeRequest struct {
	Topic     string
	Inventory []graph.NodeInfo
	Edges     int
}

// Synthesizer drafts node and edge proposals for a topic.
type Synthesizer interface {
	Name() string
	DraftNodes(ctx context.Context, req NodeRequest) ([]graph.NodeProposal, error)
	DraftEdges(ctx context.Context, req EdgeRequest) ([]graph.EdgeProposal, error)
}
