package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"loom/internal/graph"
)

// GeminiSynthesizer drafts proposals with Gemini text generation.
type GeminiSynthesizer struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiSynthesizer(ctx context.Context, apiKey string, modelName string) (*GeminiSynthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiSynthesizer{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (g *GeminiSynthesizer) Name() string { return "gemini" }

const generateRetryDelay = 6 * time.Second
const generateMaxRetries = 3

func (g *GeminiSynthesizer) DraftNodes(ctx context.Context, req NodeRequest) ([]graph.NodeProposal, error) {
	raw, err := g.generate(ctx, g.promptBuilder.BuildNodesPrompt(req))
	if err != nil {
		return nil, err
	}
	var drafts []graph.NodeProposal
	if err := json.Unmarshal([]byte(cleanJSONOutput(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse node drafts: %w", err)
	}
	return drafts, nil
}

func (g *GeminiSynthesizer) DraftEdges(ctx context.Context, req EdgeRequest) ([]graph.EdgeProposal, error) {
	raw, err := g.generate(ctx, g.promptBuilder.BuildEdgesPrompt(req))
	if err != nil {
		return nil, err
	}
	var drafts []graph.EdgeProposal
	if err := json.Unmarshal([]byte(cleanJSONOutput(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse edge drafts: %w", err)
	}
	return drafts, nil
}

func (g *GeminiSynthesizer) generate(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(prompt)

	var resp *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt <= generateMaxRetries; attempt++ {
		resp, err = g.client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err == nil {
			break
		}
		if !isRateLimitError(err) || attempt == generateMaxRetries {
			return "", fmt.Errorf("failed to generate drafts: %w", err)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(generateRetryDelay):
		}
	}

	return resp.Text(), nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(s, "quota")
}
