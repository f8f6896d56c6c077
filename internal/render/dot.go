package render

import (
	"fmt"
	"strings"

	"loom/internal/graph"
)

// DOT emits a Graphviz digraph of the full export. Edge labels carry the
// relation name and tooltips carry the rationale, so the provenance of every
// link survives into the rendered artifact.
func DOT(view graph.StructuredView) string {
	var sb strings.Builder
	sb.WriteString("digraph loom {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, n := range view.Nodes {
		shape := "box"
		if n.Kind == graph.KindLearningOutcome {
			shape = "ellipse"
		}
		label := graph.TruncateSentence(n.Text, labelRunes)
		sb.WriteString(fmt.Sprintf("    %q [label=%q, shape=%s];\n", n.ID, label, shape))
	}

	sb.WriteString("\n")
	for _, e := range view.Edges {
		attrs := fmt.Sprintf("label=%q", string(e.Relation))
		if e.Relation == graph.RelationSupports {
			attrs += ", style=dashed"
		}
		if e.Rationale != "" {
			attrs += fmt.Sprintf(", tooltip=%q", e.Rationale)
		}
		sb.WriteString(fmt.Sprintf("    %q -> %q [%s];\n", e.From, e.To, attrs))
	}

	sb.WriteString("}\n")
	return sb.String()
}
