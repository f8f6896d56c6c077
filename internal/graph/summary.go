package graph

import "sort"

const topOutcomeLimit = 5

// OutcomeRank is one entry of the inbound-supports ranking.
type OutcomeRank struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	InboundSupports int    `json:"inbound_supports"`
}

// Summary aggregates counts by kind and relation, the acyclicity status of
// the prerequisite subgraph, and the top learning outcomes by inbound
// supports count.
type Summary struct {
	TotalNodes          int           `json:"total_nodes"`
	Concepts            int           `json:"concepts"`
	LearningOutcomes    int           `json:"learning_outcomes"`
	TotalEdges          int           `json:"total_edges"`
	PrerequisiteEdges   int           `json:"prerequisite_edges"`
	SupportsEdges       int           `json:"supports_edges"`
	PrerequisiteDAG     bool          `json:"prerequisite_dag_ok"`
	CycleWitness        []string      `json:"cycle_witness,omitempty"`
	TopLearningOutcomes []OutcomeRank `json:"top_learning_outcomes,omitempty"`
}

// Summarize computes the aggregate statistics for the current graph
// contents. The acyclicity status is re-verified from scratch rather than
// assumed from construction.
func (s *Store) Summarize() Summary {
	sum := Summary{TotalNodes: len(s.nodes)}

	for _, id := range s.ordered {
		switch s.nodes[id].Kind {
		case KindConcept:
			sum.Concepts++
		case KindLearningOutcome:
			sum.LearningOutcomes++
		}
	}

	inboundSupports := make(map[string]int)
	for _, e := range s.edges {
		sum.TotalEdges++
		switch e.Relation {
		case RelationPrerequisite:
			sum.PrerequisiteEdges++
		case RelationSupports:
			sum.SupportsEdges++
			inboundSupports[e.To]++
		}
	}

	ok, witness := s.IsPrerequisiteDAG()
	sum.PrerequisiteDAG = ok
	if !ok {
		for _, id := range witness {
			if n, found := s.nodes[id]; found {
				sum.CycleWitness = append(sum.CycleWitness, n.Text)
			}
		}
	}

	ranked := make([]OutcomeRank, 0, sum.LearningOutcomes)
	for _, id := range s.ordered {
		n := s.nodes[id]
		if n.Kind != KindLearningOutcome {
			continue
		}
		ranked = append(ranked, OutcomeRank{
			ID:              n.ID,
			Text:            n.Text,
			InboundSupports: inboundSupports[n.ID],
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].InboundSupports == ranked[j].InboundSupports {
			return ranked[i].Text < ranked[j].Text
		}
		return ranked[i].InboundSupports > ranked[j].InboundSupports
	})
	if len(ranked) > topOutcomeLimit {
		ranked = ranked[:topOutcomeLimit]
	}
	sum.TopLearningOutcomes = ranked
	return sum
}

// SummarizeView computes the same aggregates from a structured view by
// loading it into a scratch store. The observer mirror and the journal
// replay path report through this, keeping the canonical store untouched.
func SummarizeView(view StructuredView) Summary {
	s := NewStore()
	for _, n := range view.Nodes {
		s.AddNode(Node{
			ID:          n.ID,
			Kind:        n.Kind,
			Granularity: GranularitySentence,
			Level:       n.Level,
			Text:        n.Text,
			Tags:        append([]string(nil), n.Tags...),
		})
	}
	for _, e := range view.Edges {
		s.AddEdge(Edge{From: e.From, To: e.To, Relation: e.Relation, Rationale: e.Rationale})
	}
	return s.Summarize()
}
