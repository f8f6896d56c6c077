// Package event carries the append-only audit stream of mutator decisions.
// Every decision produces exactly one event; events are totally ordered by
// the bus-assigned sequence number.
package event

import (
	"time"

	"loom/internal/graph"
)

// Kind discriminates the four decision outcomes.
type Kind string

const (
	KindNodeAccepted Kind = "node_accepted"
	KindNodeRejected Kind = "node_rejected"
	KindEdgeAccepted Kind = "edge_accepted"
	KindEdgeRejected Kind = "edge_rejected"
)

// NodeAccepted carries the final identity of a committed node.
type NodeAccepted struct {
	ID    string         `json:"id"`
	Kind  graph.NodeKind `json:"kind"`
	Level int            `json:"level"`
	Text  string         `json:"text"`
	Tags  []string       `json:"tags,omitempty"`
}

// NodeRejected carries the original proposal and the rejection reason.
type NodeRejected struct {
	Proposal graph.NodeProposal `json:"proposal"`
	Reason   string             `json:"reason"`
}

// EdgeAccepted carries the committed edge by endpoint IDs.
type EdgeAccepted struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Relation  graph.Relation `json:"relation"`
	Rationale string         `json:"rationale,omitempty"`
}

// EdgeRejected carries the original proposal and the rejection reason.
type EdgeRejected struct {
	Proposal graph.EdgeProposal `json:"proposal"`
	Reason   string             `json:"reason"`
}

// Event is the envelope delivered to observers. Exactly one payload field
// is set, matching Kind. Seq and At are assigned by the bus at publish
// time.
type Event struct {
	Seq  uint64    `json:"seq"`
	At   time.Time `json:"at"`
	Kind Kind      `json:"kind"`

	NodeAccepted *NodeAccepted `json:"node_accepted,omitempty"`
	NodeRejected *NodeRejected `json:"node_rejected,omitempty"`
	EdgeAccepted *EdgeAccepted `json:"edge_accepted,omitempty"`
	EdgeRejected *EdgeRejected `json:"edge_rejected,omitempty"`
}

// NewNodeAccepted builds the acceptance event for a committed node.
func NewNodeAccepted(n graph.Node) Event {
	return Event{
		Kind: KindNodeAccepted,
		NodeAccepted: &NodeAccepted{
			ID:    n.ID,
			Kind:  n.Kind,
			Level: n.Level,
			Text:  n.Text,
			Tags:  append([]string(nil), n.Tags...),
		},
	}
}

// NewNodeRejected builds the rejection event for a node proposal.
func NewNodeRejected(p graph.NodeProposal, reason string) Event {
	return Event{
		Kind:         KindNodeRejected,
		NodeRejected: &NodeRejected{Proposal: p, Reason: reason},
	}
}

// NewEdgeAccepted builds the acceptance event for a committed edge.
func NewEdgeAccepted(e graph.Edge) Event {
	return Event{
		Kind: KindEdgeAccepted,
		EdgeAccepted: &EdgeAccepted{
			From:      e.From,
			To:        e.To,
			Relation:  e.Relation,
			Rationale: e.Rationale,
		},
	}
}

// NewEdgeRejected builds the rejection event for an edge proposal.
func NewEdgeRejected(p graph.EdgeProposal, reason string) Event {
	return Event{
		Kind:         KindEdgeRejected,
		EdgeRejected: &EdgeRejected{Proposal: p, Reason: reason},
	}
}

// Accepted reports whether the event records a committed change.
func (e Event) Accepted() bool {
	return e.Kind == KindNodeAccepted || e.Kind == KindEdgeAccepted
}
