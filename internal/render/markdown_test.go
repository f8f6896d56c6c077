package render

import (
	"strings"
	"testing"

	"loom/internal/graph"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown_SummaryDocument(t *testing.T) {
	view, layout := fixtureGraph()
	summary := graph.Summary{
		TotalNodes:        3,
		Concepts:          2,
		LearningOutcomes:  1,
		TotalEdges:        2,
		PrerequisiteEdges: 1,
		SupportsEdges:     1,
		PrerequisiteDAG:   true,
		TopLearningOutcomes: []graph.OutcomeRank{
			{ID: "outcome-1", Text: "I can write a contract.", InboundSupports: 1},
		},
	}

	out := Markdown("Design Recipe", summary, view, layout)

	assert.True(t, strings.HasPrefix(out, "# Design Recipe Knowledge Map\n"))
	assert.Contains(t, out, "| Concepts | 2 |")
	assert.Contains(t, out, "| Learning outcomes | 1 |")
	assert.Contains(t, out, "| Rank depth | 2 |")
	assert.Contains(t, out, "The prerequisite lattice is acyclic.")
	assert.Contains(t, out, "1. I can write a contract. (1 supporting links)")
	assert.Contains(t, out, "```mermaid")
}

func TestMarkdown_ReportsCycleWitness(t *testing.T) {
	view, layout := fixtureGraph()
	summary := graph.Summary{
		PrerequisiteDAG: false,
		CycleWitness:    []string{"Alpha.", "Beta.", "Alpha."},
	}

	out := Markdown("Design Recipe", summary, view, layout)

	assert.Contains(t, out, "contains a cycle: Alpha. -> Beta. -> Alpha.")
}

func TestMarkdown_NoOutcomesAccepted(t *testing.T) {
	view, layout := fixtureGraph()

	out := Markdown("Design Recipe", graph.Summary{PrerequisiteDAG: true}, view, layout)

	assert.Contains(t, out, "No learning outcomes were accepted.")
}
