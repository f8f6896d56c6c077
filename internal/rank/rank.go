// Package rank derives layout depths for the prerequisite lattice.
//
// A node with no incoming prerequisite edges sits at rank zero; every other
// node sits one step below its deepest prerequisite. Supports edges never
// move a node, and declared levels are never consulted.
package rank

// Dependency is a single prerequisite constraint: From must come before To.
type Dependency struct {
	From string
	To   string
}

// Layout groups nodes into rows by derived depth.
type Layout struct {
	// RankOf maps a node ID to its derived depth.
	RankOf map[string]int
	// Rows lists node IDs per rank. Within a row, nodes keep the order the
	// caller passed them in. Rows[0] holds the roots.
	Rows [][]string
}

// Depth reports how many ranks the layout spans.
func (l Layout) Depth() int {
	return len(l.Rows)
}

// Compute derives the rank of every node in order from the prerequisite
// dependencies alone. The dependency set must be acyclic. Dependencies whose
// endpoints are not listed in order are ignored.
func Compute(order []string, deps []Dependency) Layout {
	if len(order) == 0 {
		return Layout{RankOf: map[string]int{}}
	}

	known := make(map[string]bool, len(order))
	for _, id := range order {
		known[id] = true
	}

	// Parallel edges each count toward the indegree so that every copy is
	// consumed before a node becomes ready.
	indegree := make(map[string]int, len(order))
	children := make(map[string][]string, len(order))
	for _, d := range deps {
		if !known[d.From] || !known[d.To] {
			continue
		}
		indegree[d.To]++
		children[d.From] = append(children[d.From], d.To)
	}

	rankOf := make(map[string]int, len(order))
	queue := make([]string, 0, len(order))
	for _, id := range order {
		if indegree[id] == 0 {
			rankOf[id] = 0
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if r := rankOf[id] + 1; r > rankOf[child] {
				rankOf[child] = r
			}
			if indegree[child]--; indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	maxRank := 0
	for _, id := range order {
		if rankOf[id] > maxRank {
			maxRank = rankOf[id]
		}
	}
	rows := make([][]string, maxRank+1)
	for _, id := range order {
		rows[rankOf[id]] = append(rows[rankOf[id]], id)
	}

	return Layout{RankOf: rankOf, Rows: rows}
}
