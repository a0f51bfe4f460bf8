package domain

import "time"

// DateLayout is the calendar format used for publish dates everywhere.
const DateLayout = "2006-01-02"

// Article is one blog post as extracted from its page.
type Article struct {
	URL         string
	Title       string
	Content     string
	PublishedAt time.Time
}

// Evaluation is the relevance verdict the language model returned for a summary.
type Evaluation struct {
	RelevanceScore int
	Comment        string
}

// KeptArticle is an article that passed every gate and met the acceptance threshold.
type KeptArticle struct {
	URL               string
	Title             string
	PublishedAt       time.Time
	Summary           string
	Keywords          string
	RelevanceScore    int
	EvaluationComment string
}

// Decision enumerates the per-candidate outcomes of a pipeline run.
type Decision string

const (
	DecisionExtractFailed    Decision = "skip_extract_failed"
	DecisionMissingDate      Decision = "skip_missing_date"
	DecisionStale            Decision = "skip_stale"
	DecisionTooShort         Decision = "skip_short"
	DecisionLowScore         Decision = "discard_low_score"
	DecisionEvaluationFailed Decision = "discard_evaluation_failed"
	DecisionKeep             Decision = "keep"
)

// Report summarizes a finished run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Candidates int
	Decisions  map[Decision]int
	Kept       []KeptArticle
	Notified   bool
}
