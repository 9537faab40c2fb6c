package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("no content returned from AI")

type GeminiClient struct {
	Client    *genai.Client
	modelName string
}

func NewGenAIClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}

	return &GeminiClient{Client: client, modelName: modelName}, nil
}

// GenerateText sends userText under systemPrompt (omitted when empty) and
// returns the text parts of the first candidate joined together.
func (g *GeminiClient) GenerateText(ctx context.Context, systemPrompt, userText string) (string, error) {
	// A model handle per call keeps the system instruction out of shared state.
	model := g.Client.GenerativeModel(g.modelName)
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userText))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

func (g *GeminiClient) Close() error {
	return g.Client.Close()
}
