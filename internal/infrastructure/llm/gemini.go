package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"TrendDeck/internal/config"
	"TrendDeck/internal/domain"
	"TrendDeck/internal/ports"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implements ports.ColorProvider with the Google Gen AI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ ports.ColorProvider = (*GeminiClient)(nil)

// NewGeminiClient creates the SDK client. The Gemini API backend needs an API key;
// the vertex-ai backend relies on application default credentials.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	clientConfig := &genai.ClientConfig{}

	if cfg.Backend == "vertex-ai" {
		clientConfig.Backend = genai.BackendVertexAI
	} else {
		clientConfig.Backend = genai.BackendGeminiAPI
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is required: %w", domain.ErrNoProvider)
		}
		clientConfig.APIKey = cfg.APIKey
	}

	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gen ai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends instruction as the system instruction and content as the user turn.
func (g *GeminiClient) Generate(ctx context.Context, instruction, content string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(content), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := response.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned no text")
	}

	return text, nil
}
