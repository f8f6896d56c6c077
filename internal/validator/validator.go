package validator

import (
	"strings"

	"loom/internal/graph"
)

// Rejection reasons are stable categories. Callers may match on them
// exactly, except for ReasonWouldIntroduceCycle which can carry a witness
// path appended after ": ".
const (
	ReasonUnsupportedGranularity = "unsupported granularity"
	ReasonInvalidKind            = "invalid kind"
	ReasonEmptyOrMultiSentence   = "empty or multi-sentence text"
	ReasonLevelOutOfRange        = "level out of range"
	ReasonMissingOutcomePrefix   = "missing learning-outcome prefix"
	ReasonDuplicateText          = "duplicate text"

	ReasonUnknownEndpoint     = "unknown endpoint"
	ReasonSelfLoop            = "self-loop"
	ReasonMissingRationale    = "missing rationale"
	ReasonInvalidRelation     = "invalid relation"
	ReasonInvalidSourceKind   = "invalid source kind"
	ReasonLevelOrdering       = "level ordering violated"
	ReasonWouldIntroduceCycle = "would introduce cycle"
)

// outcomePrefixes are the accepted openings for learning-outcome text,
// compared against the normalized (lowercased) form.
var outcomePrefixes = []string{"i can ", "students can "}

const witnessLabelRunes = 40

// Lookup is the slice of store behavior the checks need. The checks are
// otherwise pure: they never write.
type Lookup interface {
	FindByNormalizedText(text string) (*graph.Node, bool)
	FindByID(id string) (*graph.Node, bool)
	WouldIntroduceCycle(from, to string) (bool, []string)
}

// CheckNode runs the node checks in order, short-circuiting on the first
// failure. An empty return means the proposal passed.
func CheckNode(store Lookup, p graph.NodeProposal) string {
	if p.Granularity != graph.GranularitySentence {
		return ReasonUnsupportedGranularity
	}
	if p.Kind != graph.KindConcept && p.Kind != graph.KindLearningOutcome {
		return ReasonInvalidKind
	}
	if !graph.IsSingleSentence(p.Text) {
		return ReasonEmptyOrMultiSentence
	}
	if p.Level < 0 || p.Level > graph.MaxNodeLevel {
		return ReasonLevelOutOfRange
	}
	if p.Kind == graph.KindLearningOutcome && !hasOutcomePrefix(p.Text) {
		return ReasonMissingOutcomePrefix
	}
	if _, exists := store.FindByNormalizedText(p.Text); exists {
		return ReasonDuplicateText
	}
	return ""
}

// CheckEdge runs the edge checks in order, short-circuiting on the first
// failure. An empty return means the proposal passed.
func CheckEdge(store Lookup, p graph.EdgeProposal) string {
	from, okFrom := store.FindByID(p.FromID)
	to, okTo := store.FindByID(p.ToID)
	if !okFrom || !okTo {
		return ReasonUnknownEndpoint
	}
	if p.FromID == p.ToID {
		return ReasonSelfLoop
	}
	if strings.TrimSpace(p.Rationale) == "" {
		return ReasonMissingRationale
	}

	switch p.Relation {
	case graph.RelationPrerequisite:
		if from.Kind != graph.KindConcept {
			return ReasonInvalidSourceKind
		}
		if from.Level > to.Level {
			return ReasonLevelOrdering
		}
		if cyclic, path := store.WouldIntroduceCycle(p.FromID, p.ToID); cyclic {
			return cycleReason(store, from, path)
		}
	case graph.RelationSupports:
		// No structural constraints beyond the common checks.
	default:
		return ReasonInvalidRelation
	}
	return ""
}

func hasOutcomePrefix(text string) bool {
	normalized := graph.NormalizeText(text)
	for _, prefix := range outcomePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

// cycleReason appends the would-be cycle to the stable category. The path
// from the store runs target -> ... -> source; prefixing the source closes
// the loop for the reader.
func cycleReason(store Lookup, from *graph.Node, path []string) string {
	labels := make([]string, 0, len(path)+1)
	labels = append(labels, graph.TruncateSentence(from.Text, witnessLabelRunes))
	for _, id := range path {
		label := id
		if n, ok := store.FindByID(id); ok {
			label = graph.TruncateSentence(n.Text, witnessLabelRunes)
		}
		labels = append(labels, label)
	}
	return ReasonWouldIntroduceCycle + ": " + strings.Join(labels, " -> ")
}
