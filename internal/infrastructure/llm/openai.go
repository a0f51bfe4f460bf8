package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

const defaultTimeout = 60 * time.Second

// OpenAICompleter implements ports.Completer backed by OpenAI-compatible APIs.
type OpenAICompleter struct {
	client *openai.Client
}

var _ ports.Completer = (*OpenAICompleter)(nil)

// NewOpenAICompleter builds a client from configuration. An empty endpoint
// keeps the library default; a nil httpClient gets the configured timeout.
func NewOpenAICompleter(cfg config.LLMConfig, httpClient *http.Client) *OpenAICompleter {
	oc := openai.DefaultConfig(cfg.APIKey)
	if endpoint := strings.TrimSuffix(strings.TrimSpace(cfg.Endpoint), "/"); endpoint != "" {
		oc.BaseURL = endpoint
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	oc.HTTPClient = httpClient

	return &OpenAICompleter{client: openai.NewClientWithConfig(oc)}
}

// Complete sends the prompt as a single user message and returns the first choice.
func (c *OpenAICompleter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("%w: openai client is nil", domain.ErrModelCall)
	}

	// temperature is omitempty on the wire; 0 would silently become the API default.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", domain.ErrModelCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", domain.ErrModelCall)
	}

	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client holds no per-completer resources.
func (c *OpenAICompleter) Close() error {
	return nil
}
