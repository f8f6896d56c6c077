package render

import (
	"fmt"
	"strings"

	"loom/internal/graph"
	"loom/internal/rank"
)

// Markdown builds the human-readable summary document: headline counts, the
// acyclicity verdict, the most-supported learning outcomes, and the rank
// diagram inline.
func Markdown(topic string, s graph.Summary, view graph.StructuredView, layout rank.Layout) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s Knowledge Map\n\n", strings.TrimSpace(topic)))
	sb.WriteString("Built from the accepted decision stream; rejected proposals never reach this page.\n\n")

	sb.WriteString("## Graph at a Glance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("| :--- | :--- |\n")
	sb.WriteString(fmt.Sprintf("| Concepts | %d |\n", s.Concepts))
	sb.WriteString(fmt.Sprintf("| Learning outcomes | %d |\n", s.LearningOutcomes))
	sb.WriteString(fmt.Sprintf("| Prerequisite edges | %d |\n", s.PrerequisiteEdges))
	sb.WriteString(fmt.Sprintf("| Supports edges | %d |\n", s.SupportsEdges))
	sb.WriteString(fmt.Sprintf("| Rank depth | %d |\n\n", layout.Depth()))

	if s.PrerequisiteDAG {
		sb.WriteString("The prerequisite lattice is acyclic.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("⚠️ The prerequisite lattice contains a cycle: %s\n\n",
			strings.Join(s.CycleWitness, " -> ")))
	}

	sb.WriteString("## Top Learning Outcomes\n\n")
	if len(s.TopLearningOutcomes) == 0 {
		sb.WriteString("No learning outcomes were accepted.\n\n")
	} else {
		for i, o := range s.TopLearningOutcomes {
			sb.WriteString(fmt.Sprintf("%d. %s (%d supporting links)\n", i+1, o.Text, o.InboundSupports))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Prerequisite Map\n\n")
	sb.WriteString("```mermaid\n")
	sb.WriteString(Mermaid(view, layout))
	sb.WriteString("```\n")

	return sb.String()
}
