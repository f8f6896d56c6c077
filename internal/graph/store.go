package graph

// Store is the canonical in-memory multigraph of accepted nodes and edges.
// It trusts its caller completely: validation happens upstream, and only the
// mutator is allowed to hold a writable reference.
type Store struct {
	nodes   map[string]*Node
	ordered []string // node IDs in insertion order
	byText  map[string]string
	edges   []Edge

	// prereqOut is the adjacency of the prerequisite-only subgraph,
	// maintained incrementally for cycle probes.
	prereqOut map[string][]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes:     make(map[string]*Node),
		byText:    make(map[string]string),
		prereqOut: make(map[string][]string),
	}
}

// AddNode inserts an already-validated node and indexes it by ID and by
// normalized text. Returns the node's ID, the handle used for edge
// construction.
func (s *Store) AddNode(n Node) string {
	stored := n
	s.nodes[stored.ID] = &stored
	s.ordered = append(s.ordered, stored.ID)
	s.byText[NormalizeText(stored.Text)] = stored.ID
	return stored.ID
}

// AddEdge inserts an already-validated edge between two existing nodes and
// returns its position in the edge list.
func (s *Store) AddEdge(e Edge) int {
	s.edges = append(s.edges, e)
	if e.Relation == RelationPrerequisite {
		s.prereqOut[e.From] = append(s.prereqOut[e.From], e.To)
	}
	return len(s.edges) - 1
}

// FindByNormalizedText looks up a node whose normalized text matches the
// normalized form of text. Used for dedup.
func (s *Store) FindByNormalizedText(text string) (*Node, bool) {
	id, ok := s.byText[NormalizeText(text)]
	if !ok {
		return nil, false
	}
	return s.nodes[id], true
}

// FindByID resolves a stable node identifier.
func (s *Store) FindByID(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// NodesInOrder returns all nodes in insertion order.
func (s *Store) NodesInOrder() []*Node {
	out := make([]*Node, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.nodes[id])
	}
	return out
}

// EdgeList returns a copy of all edges in insertion order.
func (s *Store) EdgeList() []Edge {
	return append([]Edge(nil), s.edges...)
}

// NodeCount returns the number of accepted nodes.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// WouldIntroduceCycle reports whether adding the candidate prerequisite
// edge from -> to would close a directed cycle in the prerequisite-only
// subgraph. The store is not mutated. On a positive result the returned
// path lists node IDs from `to` back to `from`; prefixing `from` yields the
// full would-be cycle.
func (s *Store) WouldIntroduceCycle(from, to string) (bool, []string) {
	if from == to {
		return true, []string{to}
	}

	// The candidate edge closes a cycle exactly when `from` is already
	// reachable from `to` over prerequisite edges.
	visited := make(map[string]bool)
	var path []string
	var dfs func(cur string) bool
	dfs = func(cur string) bool {
		if cur == from {
			path = append(path, cur)
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, next := range s.prereqOut[cur] {
			if dfs(next) {
				path = append(path, cur)
				return true
			}
		}
		return false
	}
	if !dfs(to) {
		return false, nil
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return true, path
}

// IsPrerequisiteDAG verifies the acyclicity invariant over the whole
// prerequisite subgraph from scratch. By construction it should always
// hold; the witness cycle is returned if it ever does not.
func (s *Store) IsPrerequisiteDAG() (bool, []string) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(s.nodes))
	var cycle []string

	var visit func(id string, trail []string) bool
	visit = func(id string, trail []string) bool {
		color[id] = grey
		trail = append(trail, id)
		for _, next := range s.prereqOut[id] {
			switch color[next] {
			case grey:
				// Back edge: slice the trail from the first occurrence.
				for i, tid := range trail {
					if tid == next {
						cycle = append([]string(nil), trail[i:]...)
						break
					}
				}
				return false
			case white:
				if !visit(next, trail) {
					return false
				}
			}
		}
		color[id] = black
		return true
	}

	for _, id := range s.ordered {
		if color[id] == white {
			if !visit(id, nil) {
				return false, cycle
			}
		}
	}
	return true, nil
}
