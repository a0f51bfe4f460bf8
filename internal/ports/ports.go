package ports

import (
	"context"

	"BlogScout/internal/domain"
)

// LinkSource discovers candidate article URLs on the configured blog.
type LinkSource interface {
	Discover(ctx context.Context) ([]string, error)
}

// ArticleExtractor downloads one article page and pulls out its fields.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (domain.Article, error)
}

// CompletionRequest is a single-prompt model call.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float32
	// JSON asks the provider to constrain output to a JSON object.
	JSON bool
}

// Completer turns a prompt into text (OpenAI, Gemini, ...).
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Summarizer condenses an article. On failure it still returns usable
// fallback text together with the error.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// KeywordExtractor returns a comma-separated phrase list for a summary.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, summary string) (string, error)
}

// Evaluator scores a summary against the relevance rubric.
type Evaluator interface {
	Evaluate(ctx context.Context, summary string) (domain.Evaluation, error)
}

// Notifier posts kept articles to the team chat.
type Notifier interface {
	Publish(ctx context.Context, articles []domain.KeptArticle) error
}

// Throttle blocks until the next unit of work may start.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Recorder receives per-run telemetry.
type Recorder interface {
	Candidates(n int)
	Decision(d domain.Decision)
	ModelFailure(call string)
}
