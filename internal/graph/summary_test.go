package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := NewStore()
	s.AddNode(testNode("c1", KindConcept, 0, "Templates come from data definitions."))
	s.AddNode(testNode("c2", KindConcept, 1, "Examples become tests."))
	s.AddNode(testNode("lo1", KindLearningOutcome, 1, "I can write a template."))
	s.AddNode(testNode("lo2", KindLearningOutcome, 2, "I can derive tests from examples."))

	s.AddEdge(Edge{From: "c1", To: "c2", Relation: RelationPrerequisite, Rationale: "builds on"})
	s.AddEdge(Edge{From: "c1", To: "lo1", Relation: RelationSupports, Rationale: "grounds"})
	s.AddEdge(Edge{From: "c2", To: "lo1", Relation: RelationSupports, Rationale: "grounds"})
	s.AddEdge(Edge{From: "c2", To: "lo2", Relation: RelationSupports, Rationale: "grounds"})

	sum := s.Summarize()

	assert.Equal(t, 4, sum.TotalNodes)
	assert.Equal(t, 2, sum.Concepts)
	assert.Equal(t, 2, sum.LearningOutcomes)
	assert.Equal(t, 4, sum.TotalEdges)
	assert.Equal(t, 1, sum.PrerequisiteEdges)
	assert.Equal(t, 3, sum.SupportsEdges)
	assert.True(t, sum.PrerequisiteDAG)
	assert.Empty(t, sum.CycleWitness)

	require.Len(t, sum.TopLearningOutcomes, 2)
	assert.Equal(t, "lo1", sum.TopLearningOutcomes[0].ID)
	assert.Equal(t, 2, sum.TopLearningOutcomes[0].InboundSupports)
	assert.Equal(t, "lo2", sum.TopLearningOutcomes[1].ID)
}

func TestSummarize_OutcomeTiesBreakByText(t *testing.T) {
	s := NewStore()
	s.AddNode(testNode("b", KindLearningOutcome, 1, "I can zip things."))
	s.AddNode(testNode("a", KindLearningOutcome, 1, "I can add things."))

	sum := s.Summarize()
	require.Len(t, sum.TopLearningOutcomes, 2)
	// Equal inbound counts: alphabetical by text, not insertion order.
	assert.Equal(t, "a", sum.TopLearningOutcomes[0].ID)
	assert.Equal(t, "b", sum.TopLearningOutcomes[1].ID)
}

func TestSummarize_TopOutcomeLimit(t *testing.T) {
	s := NewStore()
	texts := []string{
		"I can alpha.", "I can bravo.", "I can charlie.",
		"I can delta.", "I can echo.", "I can foxtrot.",
	}
	for _, text := range texts {
		s.AddNode(testNode(text, KindLearningOutcome, 1, text))
	}

	sum := s.Summarize()
	assert.Len(t, sum.TopLearningOutcomes, 5)
}

func TestSummarizeView_MatchesStore(t *testing.T) {
	s := NewStore()
	s.AddNode(testNode("c1", KindConcept, 0, "Templates come from data definitions."))
	s.AddNode(testNode("c2", KindConcept, 1, "Examples become tests."))
	s.AddNode(testNode("lo1", KindLearningOutcome, 1, "I can write a template."))
	s.AddEdge(Edge{From: "c1", To: "c2", Relation: RelationPrerequisite, Rationale: "builds on"})
	s.AddEdge(Edge{From: "c2", To: "lo1", Relation: RelationSupports, Rationale: "grounds"})

	assert.Equal(t, s.Summarize(), SummarizeView(s.Export()))
}
