package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// Evaluator scores summaries against the configured rubric.
type Evaluator struct {
	completer ports.Completer
	call      config.CallConfig
	rubric    config.RubricConfig
}

var _ ports.Evaluator = (*Evaluator)(nil)

// NewEvaluator binds a completer to the evaluation call settings and rubric.
func NewEvaluator(completer ports.Completer, call config.CallConfig, rubric config.RubricConfig) *Evaluator {
	return &Evaluator{completer: completer, call: call, rubric: rubric}
}

// Evaluate asks the model for a verdict and validates it. Errors wrap
// domain.ErrModelCall or domain.ErrInvalidEvaluation.
func (e *Evaluator) Evaluate(ctx context.Context, summary string) (domain.Evaluation, error) {
	out, err := e.completer.Complete(ctx, ports.CompletionRequest{
		Model:       e.call.Model,
		Prompt:      RubricPrompt(e.rubric, summary),
		Temperature: e.call.Temperature,
		JSON:        true,
	})
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluate: %w", err)
	}

	eval, err := ParseEvaluation(out)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluate: %w", err)
	}
	return eval, nil
}

// RubricPrompt renders the scoring instructions followed by the summary.
func RubricPrompt(rubric config.RubricConfig, summary string) string {
	var b strings.Builder

	if rubric.Role != "" {
		b.WriteString(rubric.Role + "\n\n")
	}
	if rubric.Audience != "" {
		b.WriteString(rubric.Audience + "\n\n")
	}

	b.WriteString("Based only on the TLDR summary, assign a relevance score from 0–100 according to these guidelines:\n")
	for _, band := range rubric.Bands {
		fmt.Fprintf(&b, "- **%d–%d**: %s\n", band.Min, band.Max, band.Topic)
	}

	b.WriteString("\nReturn only a JSON object, exactly as:\n")
	b.WriteString(`{ "relevance_score": X, "comment": "..." }` + "\n\n")
	b.WriteString("relevance_score must be an integer from 0 to 100. Do not add any other text or fields.\n\n")

	for _, ex := range rubric.Examples {
		fmt.Fprintf(&b, "Example: “%s” → score %d.\n\n", ex.Article, ex.Score)
	}

	b.WriteString("Summary:\n" + summary)
	return b.String()
}

type evaluationPayload struct {
	RelevanceScore *int    `json:"relevance_score"`
	Comment        *string `json:"comment"`
}

// ParseEvaluation accepts exactly one JSON object {"relevance_score": int 0-100,
// "comment": string}, optionally wrapped in a markdown code fence.
func ParseEvaluation(raw string) (domain.Evaluation, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return domain.Evaluation{}, fmt.Errorf("%w: empty response", domain.ErrInvalidEvaluation)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var payload evaluationPayload
	if err := dec.Decode(&payload); err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", domain.ErrInvalidEvaluation, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Evaluation{}, fmt.Errorf("%w: trailing data after object", domain.ErrInvalidEvaluation)
	}

	switch {
	case payload.RelevanceScore == nil:
		return domain.Evaluation{}, fmt.Errorf("%w: relevance_score missing", domain.ErrInvalidEvaluation)
	case *payload.RelevanceScore < 0 || *payload.RelevanceScore > 100:
		return domain.Evaluation{}, fmt.Errorf("%w: relevance_score %d outside 0-100", domain.ErrInvalidEvaluation, *payload.RelevanceScore)
	case payload.Comment == nil:
		return domain.Evaluation{}, fmt.Errorf("%w: comment missing", domain.ErrInvalidEvaluation)
	}

	return domain.Evaluation{
		RelevanceScore: *payload.RelevanceScore,
		Comment:        *payload.Comment,
	}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		// one-line fence; drop an optional language tag such as "json"
		s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), unicode.IsLetter)
	}
	return strings.TrimSpace(s)
}
