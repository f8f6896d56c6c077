package synth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"loom/internal/graph"
	"loom/internal/validator"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback_DraftNodesCounts(t *testing.T) {
	f := NewFallback()

	drafts, err := f.DraftNodes(context.Background(), NodeRequest{Topic: "Design Recipe", Concepts: 8, Outcomes: 3})
	require.NoError(t, err)
	require.Len(t, drafts, 11)

	for i, d := range drafts[:8] {
		assert.Equal(t, graph.KindConcept, d.Kind)
		assert.Equal(t, graph.GranularitySentence, d.Granularity)
		assert.Equal(t, i%(graph.MaxNodeLevel+1), d.Level)
	}
	for _, d := range drafts[8:] {
		assert.Equal(t, graph.KindLearningOutcome, d.Kind)
		assert.True(t, strings.HasPrefix(d.Text, "I can "), "outcome text %q", d.Text)
	}
}

func TestFallback_Deterministic(t *testing.T) {
	f := NewFallback()
	req := NodeRequest{Topic: "Design Recipe", Concepts: 20, Outcomes: 5}

	first, err := f.DraftNodes(context.Background(), req)
	require.NoError(t, err)
	second, err := f.DraftNodes(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("drafts diverged (-first +second):\n%s", diff)
	}
}

func TestFallback_DraftsPassValidation(t *testing.T) {
	f := NewFallback()
	store := graph.NewStore()

	drafts, err := f.DraftNodes(context.Background(), NodeRequest{Topic: "Design Recipe", Concepts: 12, Outcomes: 3})
	require.NoError(t, err)

	for i, d := range drafts {
		reason := validator.CheckNode(store, d)
		require.Empty(t, reason, "draft %d (%q) rejected: %s", i, d.Text, reason)
		store.AddNode(graph.Node{
			ID:          fmt.Sprintf("n%d", i),
			Kind:        d.Kind,
			Granularity: d.Granularity,
			Level:       d.Level,
			Text:        graph.CleanText(d.Text),
			Tags:        graph.SanitizeTags(d.Tags),
		})
	}
}

func TestFallback_LastOutcomeRepeatsFirst(t *testing.T) {
	f := NewFallback()

	drafts, err := f.DraftNodes(context.Background(), NodeRequest{Topic: "Design Recipe", Concepts: 0, Outcomes: 5})
	require.NoError(t, err)
	require.Len(t, drafts, 5)

	assert.Equal(t, drafts[0].Text, drafts[4].Text)
	// The repeats are there to trip the duplicate gate; the rest stay unique.
	seen := map[string]int{}
	for _, d := range drafts {
		seen[d.Text]++
	}
	assert.Len(t, seen, 4)
}

func TestFallback_DraftEdges(t *testing.T) {
	f := NewFallback()
	inventory := []graph.NodeInfo{
		{ID: "c0", Kind: graph.KindConcept, Level: 0},
		{ID: "c1", Kind: graph.KindConcept, Level: 1},
		{ID: "c2", Kind: graph.KindConcept, Level: 2},
		{ID: "c3", Kind: graph.KindConcept, Level: 3},
		{ID: "o0", Kind: graph.KindLearningOutcome, Level: 1},
		{ID: "o1", Kind: graph.KindLearningOutcome, Level: 2},
	}

	drafts, err := f.DraftEdges(context.Background(), EdgeRequest{Topic: "Design Recipe", Inventory: inventory, Edges: 9})
	require.NoError(t, err)
	require.Len(t, drafts, 9)

	known := map[string]bool{"c0": true, "c1": true, "c2": true, "c3": true, "o0": true, "o1": true}
	prereqs, supports := 0, 0
	for _, d := range drafts {
		assert.True(t, known[d.FromID], "unknown from %s", d.FromID)
		assert.True(t, known[d.ToID], "unknown to %s", d.ToID)
		assert.NotEmpty(t, d.Rationale)
		switch d.Relation {
		case graph.RelationPrerequisite:
			prereqs++
			assert.True(t, strings.HasPrefix(d.FromID, "c"), "prerequisite from %s", d.FromID)
		case graph.RelationSupports:
			supports++
			assert.True(t, strings.HasPrefix(d.ToID, "o"), "supports into %s", d.ToID)
		default:
			t.Fatalf("unexpected relation %s", d.Relation)
		}
	}
	assert.Equal(t, 3, prereqs)
	assert.Equal(t, 6, supports)
}

func TestFallback_DraftEdgesNeedsConcepts(t *testing.T) {
	f := NewFallback()

	drafts, err := f.DraftEdges(context.Background(), EdgeRequest{Topic: "Design Recipe", Edges: 10})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
