package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// GeminiCompleter implements ports.Completer on Google's Gemini API.
type GeminiCompleter struct {
	client  *genai.Client
	timeout time.Duration
}

var _ ports.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates the SDK client; it does not contact the API.
func NewGeminiCompleter(ctx context.Context, cfg config.LLMConfig) (*GeminiCompleter, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeminiCompleter{client: client, timeout: timeout}, nil
}

// Complete generates content for the prompt and concatenates the first candidate's text parts.
func (g *GeminiCompleter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(req.Model)
	configureModel(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %w", domain.ErrModelCall, err)
	}

	text, ok := firstCandidateText(resp)
	if !ok {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrModelCall)
	}
	return text, nil
}

// configureModel applies the per-call sampling settings. Temperature is
// always set so 0 is not replaced by the model default.
func configureModel(model *genai.GenerativeModel, req ports.CompletionRequest) {
	model.SetTemperature(req.Temperature)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		return b.String(), true
	}
	return "", false
}

// Close releases the underlying gRPC connection.
func (g *GeminiCompleter) Close() error {
	return g.client.Close()
}
