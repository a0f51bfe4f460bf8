package ml

import (
	"context"
	"fmt"
	"strings"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

const keywordPromptTemplate = "Extract 3 marketing-focused keywords or short phrases from this summary, " +
	"comma-separated. No extra text.\n\n%s"

// KeywordExtractor asks the model for marketing keywords.
type KeywordExtractor struct {
	completer ports.Completer
	call      config.CallConfig
}

var _ ports.KeywordExtractor = (*KeywordExtractor)(nil)

// NewKeywordExtractor binds a completer to the keyword call settings.
func NewKeywordExtractor(completer ports.Completer, call config.CallConfig) *KeywordExtractor {
	return &KeywordExtractor{completer: completer, call: call}
}

// ExtractKeywords returns the trimmed model output. The term count is not
// enforced; only an empty answer counts as a failure. On failure the result is "".
func (k *KeywordExtractor) ExtractKeywords(ctx context.Context, summary string) (string, error) {
	out, err := k.completer.Complete(ctx, ports.CompletionRequest{
		Model:       k.call.Model,
		Prompt:      fmt.Sprintf(keywordPromptTemplate, summary),
		Temperature: k.call.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("extract keywords: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("extract keywords: %w: empty response", domain.ErrModelCall)
	}
	return out, nil
}
