package graph

// StructuredView is the full serializable dump of the graph, used for
// offline auditing and rendering. Both the canonical store and the observer
// mirror can produce one, which keeps renderers ignorant of where the data
// came from.
type StructuredView struct {
	Nodes []ViewNode `json:"nodes"`
	Edges []ViewEdge `json:"edges"`
}

// ViewNode is one exported node. Order is the insertion position, the
// tie-breaker for stable layouts.
type ViewNode struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Level int      `json:"level"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags,omitempty"`
	Order int      `json:"order"`
}

// ViewEdge is one exported edge with its relation label and rationale.
type ViewEdge struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Relation  Relation `json:"relation"`
	Rationale string   `json:"rationale,omitempty"`
}

// Export produces the structured view of every accepted node and edge.
// Nodes appear in insertion order, edges in acceptance order.
func (s *Store) Export() StructuredView {
	view := StructuredView{
		Nodes: make([]ViewNode, 0, len(s.ordered)),
		Edges: make([]ViewEdge, 0, len(s.edges)),
	}
	for i, id := range s.ordered {
		n := s.nodes[id]
		view.Nodes = append(view.Nodes, ViewNode{
			ID:    n.ID,
			Kind:  n.Kind,
			Level: n.Level,
			Text:  n.Text,
			Tags:  append([]string(nil), n.Tags...),
			Order: i,
		})
	}
	for _, e := range s.edges {
		view.Edges = append(view.Edges, ViewEdge{
			From:      e.From,
			To:        e.To,
			Relation:  e.Relation,
			Rationale: e.Rationale,
		})
	}
	return view
}
