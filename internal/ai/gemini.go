package ai

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// NewGeminiGateway connects to the Gemini API with apiKey. A nil httpClient
// uses the SDK default.
func NewGeminiGateway(ctx context.Context, apiKey, model string, httpClient *http.Client, opts ...Option) (*Gateway, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewGateway(client.Models, model, opts...), nil
}

type unconfiguredGenerator struct{}

func (unconfiguredGenerator) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, ErrNotConfigured
}

// Unconfigured returns a Generator that always fails with ErrNotConfigured.
func Unconfigured() Generator { return unconfiguredGenerator{} }
