// Package mirror maintains a read-only replica of the graph built solely
// from the event stream. It never touches the canonical store, so everything
// it reports can be reproduced by replaying the same events in order.
package mirror

import (
	"context"
	"sync"

	"loom/internal/event"
	"loom/internal/graph"
	"loom/internal/rank"
)

// Recorder persists events as they are applied. A nil recorder means the
// stream is not being journaled.
type Recorder interface {
	Record(ctx context.Context, ev event.Event) error
}

// Stats counts what the mirror has seen on the stream.
type Stats struct {
	NodesAccepted  int
	NodesRejected  int
	EdgesAccepted  int
	EdgesRejected  int
	LastSeq        uint64
	Gaps           int
	RecordFailures int
}

// Mirror applies events from one goroutine and serves reads from any.
type Mirror struct {
	mu       sync.RWMutex
	recorder Recorder

	nodes  []graph.NodeInfo
	edges  []graph.Edge
	layout rank.Layout
	stats  Stats
}

// New creates an empty mirror. rec may be nil.
func New(rec Recorder) *Mirror {
	return &Mirror{
		recorder: rec,
		layout:   rank.Compute(nil, nil),
	}
}

// Run drains events until the channel closes or the context is canceled.
// Recorder failures are counted, not fatal: a broken journal must not stall
// the stream.
func (m *Mirror) Run(ctx context.Context, events <-chan event.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.Apply(ctx, ev)
		}
	}
}

// Apply folds a single event into the replica. Events carry the sequence
// numbers the bus assigned; a jump means the stream lost something, which is
// counted and reported rather than papered over.
func (m *Mirror) Apply(ctx context.Context, ev event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Seq != m.stats.LastSeq+1 {
		m.stats.Gaps++
	}
	m.stats.LastSeq = ev.Seq

	switch ev.Kind {
	case event.KindNodeAccepted:
		if p := ev.NodeAccepted; p != nil {
			m.nodes = append(m.nodes, graph.NodeInfo{
				ID:    p.ID,
				Kind:  p.Kind,
				Level: p.Level,
				Text:  p.Text,
				Tags:  append([]string(nil), p.Tags...),
			})
			m.stats.NodesAccepted++
			m.relayout()
		}
	case event.KindNodeRejected:
		m.stats.NodesRejected++
	case event.KindEdgeAccepted:
		if p := ev.EdgeAccepted; p != nil {
			m.edges = append(m.edges, graph.Edge{
				From:      p.From,
				To:        p.To,
				Relation:  p.Relation,
				Rationale: p.Rationale,
			})
			m.stats.EdgesAccepted++
			m.relayout()
		}
	case event.KindEdgeRejected:
		m.stats.EdgesRejected++
	}

	if m.recorder != nil {
		if err := m.recorder.Record(ctx, ev); err != nil {
			m.stats.RecordFailures++
		}
	}
}

// relayout recomputes ranks from the replicated prerequisite edges alone.
// Caller holds the write lock.
func (m *Mirror) relayout() {
	order := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		order[i] = n.ID
	}
	var deps []rank.Dependency
	for _, e := range m.edges {
		if e.Relation == graph.RelationPrerequisite {
			deps = append(deps, rank.Dependency{From: e.From, To: e.To})
		}
	}
	m.layout = rank.Compute(order, deps)
}

// Stats returns a copy of the stream counters.
func (m *Mirror) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Snapshot exports the replica in the same structured form the canonical
// store exports, so the two can be compared field by field.
func (m *Mirror) Snapshot() graph.StructuredView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	view := graph.StructuredView{
		Nodes: make([]graph.ViewNode, 0, len(m.nodes)),
		Edges: make([]graph.ViewEdge, 0, len(m.edges)),
	}
	for i, n := range m.nodes {
		view.Nodes = append(view.Nodes, graph.ViewNode{
			ID:    n.ID,
			Kind:  n.Kind,
			Level: n.Level,
			Text:  n.Text,
			Tags:  append([]string(nil), n.Tags...),
			Order: i,
		})
	}
	for _, e := range m.edges {
		view.Edges = append(view.Edges, graph.ViewEdge{
			From:      e.From,
			To:        e.To,
			Relation:  e.Relation,
			Rationale: e.Rationale,
		})
	}
	return view
}

// Layout returns the current rank layout of the replica.
func (m *Mirror) Layout() rank.Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layout
}

// NodeCount reports how many accepted nodes the replica holds.
func (m *Mirror) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}
