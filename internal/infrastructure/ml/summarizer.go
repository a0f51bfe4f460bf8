package ml

import (
	"context"
	"fmt"
	"strings"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// FallbackSummary stands in when the model cannot summarize an article.
const FallbackSummary = "Summary not available."

const summaryPromptTemplate = "Summarize this article in 3–4 clear sentences (50–60 words):\n\n" +
	"Title: %s\n\n%s\n\n" +
	"Ensure the summary reflects the article’s main points and stays aligned with the title."

// Summarizer asks the model for a short summary of an article.
type Summarizer struct {
	completer ports.Completer
	call      config.CallConfig
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer binds a completer to the summary call settings.
func NewSummarizer(completer ports.Completer, call config.CallConfig) *Summarizer {
	return &Summarizer{completer: completer, call: call}
}

// Summarize returns the trimmed summary. On failure it returns FallbackSummary
// and an error wrapping domain.ErrModelCall; the fallback is still usable text.
func (s *Summarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	out, err := s.completer.Complete(ctx, ports.CompletionRequest{
		Model:       s.call.Model,
		Prompt:      SummaryPrompt(title, content),
		Temperature: s.call.Temperature,
	})
	if err != nil {
		return FallbackSummary, fmt.Errorf("summarize: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackSummary, fmt.Errorf("summarize: %w: empty response", domain.ErrModelCall)
	}
	return out, nil
}

// SummaryPrompt renders the summarization prompt.
func SummaryPrompt(title, content string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, content)
}
