package mutator

import (
	"strings"
	"testing"

	"loom/internal/event"
	"loom/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitNodes_AcceptsLearningOutcome(t *testing.T) {
	m, bus, ch := newTestMutator()

	decisions := m.SubmitNodes([]graph.NodeProposal{{
		Kind:        graph.KindLearningOutcome,
		Granularity: graph.GranularitySentence,
		Level:       1,
		Text:        "  I can   apply the design recipe.  ",
		Tags:        []string{"Design_Recipe", "bogus", "tests", "contract", "purpose"},
	}})

	require.Len(t, decisions, 1)
	require.True(t, decisions[0].Accepted)
	require.NotEmpty(t, decisions[0].AssignedID)
	assert.Empty(t, decisions[0].Reason)

	events := drain(bus, ch)
	require.Len(t, events, 1)
	assert.Equal(t, event.KindNodeAccepted, events[0].Kind)
	require.NotNil(t, events[0].NodeAccepted)
	assert.Equal(t, decisions[0].AssignedID, events[0].NodeAccepted.ID)
	assert.Equal(t, "I can apply the design recipe.", events[0].NodeAccepted.Text)
	assert.Equal(t, []string{"design_recipe", "tests", "contract"}, events[0].NodeAccepted.Tags)
}

func TestSubmitNodes_RejectsDuplicateText(t *testing.T) {
	m, bus, ch := newTestMutator()

	first := m.SubmitNodes([]graph.NodeProposal{
		outcomeProposal("I can apply the design recipe."),
	})
	require.True(t, first[0].Accepted)

	second := m.SubmitNodes([]graph.NodeProposal{
		outcomeProposal("i  CAN  apply the design recipe."),
	})
	require.False(t, second[0].Accepted)
	assert.Equal(t, "duplicate text", second[0].Reason)
	assert.Empty(t, second[0].AssignedID)

	events := drain(bus, ch)
	require.Len(t, events, 2)
	assert.Equal(t, event.KindNodeRejected, events[1].Kind)
	require.NotNil(t, events[1].NodeRejected)
	assert.Equal(t, "duplicate text", events[1].NodeRejected.Reason)
}

func TestSubmitNodes_DuplicateWithinOneBatch(t *testing.T) {
	m, _, _ := newTestMutator()

	decisions := m.SubmitNodes([]graph.NodeProposal{
		outcomeProposal("I can write a contract."),
		outcomeProposal("I can write a contract."),
	})

	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Accepted)
	assert.False(t, decisions[1].Accepted)
	assert.Equal(t, "duplicate text", decisions[1].Reason)
}

func TestSubmitNodes_OneDecisionAndEventPerProposal(t *testing.T) {
	m, bus, ch := newTestMutator()

	decisions := m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("Functions transform inputs into outputs.", 0),
		{Kind: graph.KindConcept, Granularity: graph.GranularitySentence, Level: 1, Text: ""},
		{Kind: graph.KindConcept, Granularity: graph.GranularitySentence, Level: 9, Text: "Levels are bounded."},
	})

	require.Len(t, decisions, 3)
	assert.True(t, decisions[0].Accepted)
	assert.Equal(t, "empty or multi-sentence text", decisions[1].Reason)
	assert.Equal(t, "level out of range", decisions[2].Reason)

	events := drain(bus, ch)
	require.Len(t, events, 3)
	assert.Equal(t, event.KindNodeAccepted, events[0].Kind)
	assert.Equal(t, event.KindNodeRejected, events[1].Kind)
	assert.Equal(t, event.KindNodeRejected, events[2].Kind)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}
}

func TestSubmitEdges_RejectsCycleWithinBatch(t *testing.T) {
	m, bus, ch := newTestMutator()

	// Same level on purpose so only the cycle probe can object.
	accepted := m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("Data definitions come first.", 1),
		conceptProposal("Signatures follow data definitions.", 1),
		conceptProposal("Tests follow signatures.", 1),
	})
	a, b, c := accepted[0].AssignedID, accepted[1].AssignedID, accepted[2].AssignedID

	decisions := m.SubmitEdges([]graph.EdgeProposal{
		{FromID: a, ToID: b, Relation: graph.RelationPrerequisite, Rationale: "definitions ground signatures"},
		{FromID: b, ToID: c, Relation: graph.RelationPrerequisite, Rationale: "signatures shape tests"},
		{FromID: c, ToID: a, Relation: graph.RelationPrerequisite, Rationale: "closes the loop"},
	})

	require.Len(t, decisions, 3)
	assert.True(t, decisions[0].Accepted)
	assert.True(t, decisions[1].Accepted)
	require.False(t, decisions[2].Accepted)
	assert.True(t, strings.HasPrefix(decisions[2].Reason, "would introduce cycle: "))
	assert.Contains(t, decisions[2].Reason, " -> ")

	summary := m.Summary()
	assert.Equal(t, 2, summary.PrerequisiteEdges)
	assert.True(t, summary.PrerequisiteDAG)

	events := drain(bus, ch)
	require.Len(t, events, 6)
	assert.Equal(t, event.KindEdgeRejected, events[5].Kind)
}

func TestSubmitEdges_RejectsBlankRationale(t *testing.T) {
	m, _, _ := newTestMutator()

	accepted := m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("Purpose statements name intent.", 1),
		outcomeProposal("I can state a purpose."),
	})

	decisions := m.SubmitEdges([]graph.EdgeProposal{
		{FromID: accepted[0].AssignedID, ToID: accepted[1].AssignedID, Relation: graph.RelationSupports, Rationale: "   "},
	})

	require.False(t, decisions[0].Accepted)
	assert.Equal(t, "missing rationale", decisions[0].Reason)
}

func TestSubmitEdges_RejectsUnknownEndpoint(t *testing.T) {
	m, _, _ := newTestMutator()

	accepted := m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("Stubs come before implementations.", 1),
	})

	decisions := m.SubmitEdges([]graph.EdgeProposal{
		{FromID: accepted[0].AssignedID, ToID: "no-such-node", Relation: graph.RelationSupports, Rationale: "dangling"},
	})

	require.False(t, decisions[0].Accepted)
	assert.Equal(t, "unknown endpoint", decisions[0].Reason)
}

func TestInventory_ListsAcceptedInOrder(t *testing.T) {
	m, _, _ := newTestMutator()

	m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("First concept stands alone.", 0),
		{Kind: graph.KindConcept, Granularity: "paragraph", Level: 0, Text: "Wrong granularity."},
		outcomeProposal("I can explain the first concept."),
	})

	inv := m.Inventory()
	require.Len(t, inv, 2)
	assert.Equal(t, "First concept stands alone.", inv[0].Text)
	assert.Equal(t, graph.KindLearningOutcome, inv[1].Kind)
}

func TestExport_SnapshotsNodesAndEdges(t *testing.T) {
	m, _, _ := newTestMutator()

	accepted := m.SubmitNodes([]graph.NodeProposal{
		conceptProposal("Recursion needs a base case.", 0),
		outcomeProposal("I can write a base case."),
	})
	m.SubmitEdges([]graph.EdgeProposal{
		{FromID: accepted[0].AssignedID, ToID: accepted[1].AssignedID, Relation: graph.RelationSupports, Rationale: "the concept backs the skill"},
	})

	view := m.Export()
	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, 0, view.Nodes[0].Order)
	assert.Equal(t, 1, view.Nodes[1].Order)
	assert.Equal(t, "the concept backs the skill", view.Edges[0].Rationale)
}

func newTestMutator() (*Mutator, *event.Bus, <-chan event.Event) {
	bus := event.NewBus()
	ch := bus.Subscribe()
	return New(graph.NewStore(), bus), bus, ch
}

// drain closes the bus and collects everything published so far.
func drain(bus *event.Bus, ch <-chan event.Event) []event.Event {
	bus.Close()
	var out []event.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func conceptProposal(text string, level int) graph.NodeProposal {
	return graph.NodeProposal{
		Kind:        graph.KindConcept,
		Granularity: graph.GranularitySentence,
		Level:       level,
		Text:        text,
	}
}

func outcomeProposal(text string) graph.NodeProposal {
	return graph.NodeProposal{
		Kind:        graph.KindLearningOutcome,
		Granularity: graph.GranularitySentence,
		Level:       1,
		Text:        text,
	}
}
