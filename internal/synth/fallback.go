package synth

import (
	"context"
	"fmt"
	"strings"

	"loom/internal/graph"
)

// Fallback drafts proposals from fixed word wheels. It needs no network and
// is fully deterministic for a given request, which makes it both the
// offline mode and the safety net behind the LLM.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (f *Fallback) Name() string { return "fallback" }

var conceptSubjects = []string{
	"A contract", "A purpose statement", "A data definition", "A worked example",
	"A stub", "A base case", "A helper function", "A template",
}

var conceptPredicates = []string{
	"pins down", "documents", "constrains", "drives",
	"precedes", "clarifies", "anchors", "shapes",
}

var conceptObjects = []string{
	"the shape of its inputs", "the next refinement step", "each recursive call",
	"the examples that follow", "every later design choice", "the function body",
	"the boundary conditions", "the final implementation",
}

// conceptTags cycles over the concept drafts; most stay untagged.
var conceptTags = [][]string{
	{"design_recipe"}, nil, {"contract", "purpose"}, nil,
	{"tests"}, {"stub"}, nil, {"implementation", "refactor"},
}

var outcomeVerbs = []string{"write", "revise", "explain", "test", "refactor", "derive"}

var outcomeObjects = []string{
	"a contract", "a purpose statement", "a stub", "a set of examples", "a template",
}

var prereqRationales = []string{
	"the earlier idea is assumed by the later one",
	"the chain follows the recipe order",
	"this step cannot be skipped",
	"builds directly on the previous definition",
}

var supportsRationales = []string{
	"grounds the skill in a concrete idea",
	"the concept is exercised by this outcome",
	"gives the vocabulary the outcome needs",
}

// DraftNodes produces the requested number of concepts and outcomes by
// walking the word wheels. Concept levels cycle through the full range, so
// the prerequisite spine later hits both legal and illegal level pairs.
func (f *Fallback) DraftNodes(ctx context.Context, req NodeRequest) ([]graph.NodeProposal, error) {
	drafts := make([]graph.NodeProposal, 0, req.Concepts+req.Outcomes)

	for i := 0; i < req.Concepts; i++ {
		drafts = append(drafts, graph.NodeProposal{
			Kind:        graph.KindConcept,
			Granularity: graph.GranularitySentence,
			Level:       i % (graph.MaxNodeLevel + 1),
			Text:        conceptSentence(i),
			Tags:        conceptTags[i%len(conceptTags)],
		})
	}

	for i := 0; i < req.Outcomes; i++ {
		text := outcomeSentence(i, req.Topic)
		if req.Outcomes >= 4 && i == req.Outcomes-1 {
			// The last outcome repeats the first, so every sizable run
			// exercises the duplicate gate.
			text = outcomeSentence(0, req.Topic)
		}
		drafts = append(drafts, graph.NodeProposal{
			Kind:        graph.KindLearningOutcome,
			Granularity: graph.GranularitySentence,
			Level:       1 + i%graph.MaxNodeLevel,
			Text:        text,
		})
	}

	return drafts, nil
}

// DraftEdges lays a prerequisite spine over consecutive concepts and leans
// each outcome on up to three concepts. Some spine pairs descend in level
// and fail the level check downstream; that is expected draft waste.
func (f *Fallback) DraftEdges(ctx context.Context, req EdgeRequest) ([]graph.EdgeProposal, error) {
	var concepts, outcomes []graph.NodeInfo
	for _, n := range req.Inventory {
		switch n.Kind {
		case graph.KindConcept:
			concepts = append(concepts, n)
		case graph.KindLearningOutcome:
			outcomes = append(outcomes, n)
		}
	}
	if len(concepts) == 0 || req.Edges <= 0 {
		return nil, nil
	}

	drafts := make([]graph.EdgeProposal, 0, req.Edges)
	for i := 0; i+1 < len(concepts) && len(drafts) < req.Edges; i++ {
		drafts = append(drafts, graph.EdgeProposal{
			FromID:    concepts[i].ID,
			ToID:      concepts[i+1].ID,
			Relation:  graph.RelationPrerequisite,
			Rationale: prereqRationales[i%len(prereqRationales)],
		})
	}

	// Stride of two so neighbouring outcomes do not share every support.
	for j := 0; j < len(outcomes) && len(drafts) < req.Edges; j++ {
		for k := 0; k < 3 && len(drafts) < req.Edges; k++ {
			c := concepts[(j*2+k)%len(concepts)]
			drafts = append(drafts, graph.EdgeProposal{
				FromID:    c.ID,
				ToID:      outcomes[j].ID,
				Relation:  graph.RelationSupports,
				Rationale: supportsRationales[(j+k)%len(supportsRationales)],
			})
		}
	}

	return drafts, nil
}

func conceptSentence(i int) string {
	subj := conceptSubjects[i%len(conceptSubjects)]
	pred := conceptPredicates[(i/len(conceptSubjects))%len(conceptPredicates)]
	obj := conceptObjects[(i/(len(conceptSubjects)*len(conceptPredicates)))%len(conceptObjects)]
	return fmt.Sprintf("%s %s %s.", subj, pred, obj)
}

func outcomeSentence(i int, topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = "the recipe"
	}
	contexts := []string{
		"when practicing " + topic,
		"for a new data definition",
		"without looking at notes",
		"before writing any body code",
	}
	verb := outcomeVerbs[i%len(outcomeVerbs)]
	obj := outcomeObjects[(i/len(outcomeVerbs))%len(outcomeObjects)]
	c := contexts[(i/(len(outcomeVerbs)*len(outcomeObjects)))%len(contexts)]
	return fmt.Sprintf("I can %s %s %s.", verb, obj, c)
}
