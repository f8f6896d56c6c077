package graph

// NodeKind distinguishes the two statement categories in the graph.
type NodeKind string

const (
	KindConcept         NodeKind = "concept"
	KindLearningOutcome NodeKind = "learning_outcome"
)

// Granularity is the statement size of a node. Only sentences are accepted
// today; the enum exists so coarser units can be added without reshaping
// the model.
type Granularity string

const (
	GranularitySentence Granularity = "sentence"
)

// Relation is the edge type between two nodes.
type Relation string

const (
	// RelationPrerequisite orders nodes: the subgraph restricted to this
	// relation must stay acyclic and defines layout ranks.
	RelationPrerequisite Relation = "prerequisite_for"
	// RelationSupports is a cross-cutting link with no structural
	// constraint; it never participates in rank computation.
	RelationSupports Relation = "supports"
)

const (
	// MaxNodeLevel bounds the curricular level metadata (0..MaxNodeLevel).
	MaxNodeLevel = 3
	// MaxTagsPerNode caps how many tags survive sanitation.
	MaxTagsPerNode = 3
)

// Node is an accepted statement. Immutable after acceptance; the ID is
// assigned by the mutator and never by a proposer.
type Node struct {
	ID          string      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Granularity Granularity `json:"granularity"`
	Level       int         `json:"level"`
	Text        string      `json:"text"`
	Tags        []string    `json:"tags,omitempty"`
}

// Edge is an accepted directed relation between two node IDs. Duplicate
// (from, to, relation) triples are allowed; self-loops are not.
type Edge struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Relation  Relation `json:"relation"`
	Rationale string   `json:"rationale"`
}

// NodeProposal is the untrusted input shape for a node. It carries no ID.
type NodeProposal struct {
	Kind        NodeKind    `json:"kind"`
	Granularity Granularity `json:"granularity"`
	Level       int         `json:"level"`
	Text        string      `json:"text"`
	Tags        []string    `json:"tags,omitempty"`
}

// EdgeProposal is the untrusted input shape for an edge. Endpoints are
// referenced by stable node ID.
type EdgeProposal struct {
	FromID    string   `json:"from_id"`
	ToID      string   `json:"to_id"`
	Relation  Relation `json:"relation"`
	Rationale string   `json:"rationale"`
}

// Decision is the mutator's verdict on one proposal.
type Decision struct {
	Accepted   bool   `json:"accepted"`
	Reason     string `json:"reason,omitempty"`
	AssignedID string `json:"assigned_id,omitempty"`
}

// NodeInfo is one inventory row: what downstream edge generation needs to
// reference accepted nodes without holding graph internals.
type NodeInfo struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Level int      `json:"level"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags,omitempty"`
}
