package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOT_EmitsShapesAndRelations(t *testing.T) {
	view, _ := fixtureGraph()

	out := DOT(view)

	assert.True(t, strings.HasPrefix(out, "digraph loom {\n"))
	assert.Contains(t, out, `"base-concept" [label="Contracts name the shape of data.", shape=box];`)
	assert.Contains(t, out, `"outcome-1" [label="I can write a contract.", shape=ellipse];`)
	assert.Contains(t, out, `"base-concept" -> "next-concept" [label="prerequisite_for", tooltip="shape before purpose"];`)
	assert.Contains(t, out, `"next-concept" -> "outcome-1" [label="supports", style=dashed, tooltip="purpose backs the skill"];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestDOT_OmitsEmptyTooltip(t *testing.T) {
	view, _ := fixtureGraph()
	view.Edges[0].Rationale = ""

	out := DOT(view)

	assert.Contains(t, out, `"base-concept" -> "next-concept" [label="prerequisite_for"];`)
	assert.NotContains(t, out, `tooltip=""`)
}
