package synth

import (
	"fmt"
	"strings"

	"loom/internal/graph"
)

// PromptBuilder constructs the drafting prompts sent to the LLM.
type PromptBuilder struct{}

func (pb *PromptBuilder) BuildNodesPrompt(req NodeRequest) string {
	var sb strings.Builder
	sb.WriteString("Role: Curriculum Designer. Task: Draft atomic knowledge statements for a learning graph.\n")
	fmt.Fprintf(&sb, "\nTopic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Draft exactly %d concepts and %d learning outcomes.\n", req.Concepts, req.Outcomes)

	sb.WriteString("\n**RULES**:\n")
	sb.WriteString("1. Every text is exactly one sentence ending in '.', '!' or '?', with no other terminator inside.\n")
	sb.WriteString("2. Learning outcome text starts with 'I can' or 'Students can'.\n")
	fmt.Fprintf(&sb, "3. level is an integer from 0 to %d; lower means more fundamental.\n", graph.MaxNodeLevel)
	sb.WriteString("4. granularity is always \"sentence\".\n")
	sb.WriteString("5. tags is optional; allowed values: design_recipe, contract, purpose, tests, stub, implementation, refactor.\n")
	sb.WriteString("6. No two statements may share the same text, even ignoring case and spacing.\n")

	sb.WriteString("\n**OUTPUT**:\n")
	sb.WriteString("Return ONLY a JSON array. Each element: {\"kind\": \"concept\"|\"learning_outcome\", \"granularity\": \"sentence\", \"level\": 0, \"text\": \"...\", \"tags\": [\"...\"]}.\n")
	return sb.String()
}

func (pb *PromptBuilder) BuildEdgesPrompt(req EdgeRequest) string {
	var sb strings.Builder
	sb.WriteString("Role: Curriculum Designer. Task: Link accepted knowledge statements into a learning graph.\n")
	fmt.Fprintf(&sb, "\nTopic: %s\n", req.Topic)

	sb.WriteString("\nAccepted statements (id | kind | level | text):\n")
	for _, n := range req.Inventory {
		fmt.Fprintf(&sb, "- %s | %s | %d | %s\n", n.ID, n.Kind, n.Level, n.Text)
	}

	fmt.Fprintf(&sb, "\nPropose up to %d edges.\n", req.Edges)
	sb.WriteString("\n**RULES**:\n")
	sb.WriteString("1. relation is \"prerequisite_for\" or \"supports\".\n")
	sb.WriteString("2. prerequisite_for starts at a concept and never points from a higher level to a lower one.\n")
	sb.WriteString("3. prerequisite_for links must stay acyclic overall.\n")
	sb.WriteString("4. Every edge carries a short non-empty rationale.\n")
	sb.WriteString("5. Use only ids from the list above; never link a node to itself.\n")

	sb.WriteString("\n**OUTPUT**:\n")
	sb.WriteString("Return ONLY a JSON array. Each element: {\"from_id\": \"...\", \"to_id\": \"...\", \"relation\": \"...\", \"rationale\": \"...\"}.\n")
	return sb.String()
}
