// Package mutator is the single write authority over the knowledge graph.
//
// Every proposal enters through a Mutator. It validates each one against the
// live store, applies the accepted ones, and publishes exactly one event per
// decision before the next proposal is examined. Readers never hold the
// store; they either consume the event stream or go through the read methods
// here, which share the writer's mutex.
package mutator

import (
	"sync"

	"github.com/google/uuid"

	"loom/internal/event"
	"loom/internal/graph"
	"loom/internal/validator"
)

// Mutator serializes all graph changes behind one mutex.
type Mutator struct {
	mu    sync.Mutex
	store *graph.Store
	bus   *event.Bus
}

// New wires a mutator to the store it owns and the bus it announces on.
func New(store *graph.Store, bus *event.Bus) *Mutator {
	return &Mutator{store: store, bus: bus}
}

// SubmitNodes processes node proposals strictly in order and returns one
// decision per proposal. Because each accepted node is stored before the next
// proposal is validated, a later duplicate inside the same batch is rejected
// against it.
func (m *Mutator) SubmitNodes(proposals []graph.NodeProposal) []graph.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	decisions := make([]graph.Decision, 0, len(proposals))
	for _, p := range proposals {
		if reason := validator.CheckNode(m.store, p); reason != "" {
			decisions = append(decisions, graph.Decision{Reason: reason})
			m.bus.Publish(event.NewNodeRejected(p, reason))
			continue
		}

		node := graph.Node{
			ID:          uuid.New().String(),
			Kind:        p.Kind,
			Granularity: p.Granularity,
			Level:       p.Level,
			Text:        graph.CleanText(p.Text),
			Tags:        graph.SanitizeTags(p.Tags),
		}
		m.store.AddNode(node)
		decisions = append(decisions, graph.Decision{Accepted: true, AssignedID: node.ID})
		m.bus.Publish(event.NewNodeAccepted(node))
	}
	return decisions
}

// SubmitEdges processes edge proposals strictly in order and returns one
// decision per proposal. Accepted edges are visible to the cycle probe of
// every later proposal in the batch.
func (m *Mutator) SubmitEdges(proposals []graph.EdgeProposal) []graph.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	decisions := make([]graph.Decision, 0, len(proposals))
	for _, p := range proposals {
		if reason := validator.CheckEdge(m.store, p); reason != "" {
			decisions = append(decisions, graph.Decision{Reason: reason})
			m.bus.Publish(event.NewEdgeRejected(p, reason))
			continue
		}

		edge := graph.Edge{
			From:      p.FromID,
			To:        p.ToID,
			Relation:  p.Relation,
			Rationale: graph.CleanText(p.Rationale),
		}
		m.store.AddEdge(edge)
		decisions = append(decisions, graph.Decision{Accepted: true})
		m.bus.Publish(event.NewEdgeAccepted(edge))
	}
	return decisions
}

// Inventory lists every accepted node in insertion order, in the compact form
// proposal generators work from.
func (m *Mutator) Inventory() []graph.NodeInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	nodes := m.store.NodesInOrder()
	out := make([]graph.NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, graph.NodeInfo{
			ID:    n.ID,
			Kind:  n.Kind,
			Level: n.Level,
			Text:  n.Text,
			Tags:  append([]string(nil), n.Tags...),
		})
	}
	return out
}

// Summary recomputes the aggregate view of the stored graph.
func (m *Mutator) Summary() graph.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Summarize()
}

// Export snapshots the full graph for renderers.
func (m *Mutator) Export() graph.StructuredView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Export()
}
