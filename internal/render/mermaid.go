// Package render turns structured graph exports into human-facing artifacts.
// Renderers are pure: they consume a snapshot and a layout and never reach
// back into the store or the mirror.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"loom/internal/graph"
	"loom/internal/rank"
)

// labelRunes caps rendered node labels.
const labelRunes = 80

// Mermaid emits a top-down diagram with one subgraph per rank row. Concepts
// are drawn as rectangles, learning outcomes as stadiums; prerequisite edges
// are solid, supports edges dashed. The output is the bare chart, so it can
// be written to a .mmd file as-is; Markdown embedding adds the fence.
func Mermaid(view graph.StructuredView, layout rank.Layout) string {
	byID := make(map[string]graph.ViewNode, len(view.Nodes))
	for _, n := range view.Nodes {
		byID[n.ID] = n
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for r, row := range layout.Rows {
		sb.WriteString(fmt.Sprintf("    subgraph rank_%d[%q]\n", r, fmt.Sprintf("Rank %d", r)))
		for _, id := range row {
			n, ok := byID[id]
			if !ok {
				continue
			}
			label := graph.TruncateSentence(n.Text, labelRunes)
			if n.Kind == graph.KindLearningOutcome {
				sb.WriteString(fmt.Sprintf("        %s([%q])\n", sanitizeMermaidID(id), label))
			} else {
				sb.WriteString(fmt.Sprintf("        %s[%q]\n", sanitizeMermaidID(id), label))
			}
		}
		sb.WriteString("    end\n")
	}

	for _, e := range view.Edges {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)
		if e.Relation == graph.RelationSupports {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", from, to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "node"
	}
	re := regexp.MustCompile(`[^a-z0-9_]`)
	v = re.ReplaceAllString(strings.ReplaceAll(v, "-", "_"), "_")
	if v == "" {
		return "node"
	}
	if v[0] >= '0' && v[0] <= '9' {
		v = "n_" + v
	}
	return v
}
