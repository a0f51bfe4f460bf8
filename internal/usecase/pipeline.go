package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// Model call labels used in logs and metrics.
const (
	callSummary    = "summary"
	callKeywords   = "keywords"
	callEvaluation = "evaluation"
)

// Policy holds the gate parameters.
type Policy struct {
	RecencyWindow    time.Duration
	MinContentLength int
	Threshold        int
	// ThrottleScope is config.ThrottleEvaluated, config.ThrottleKept or config.ThrottleNone.
	ThrottleScope string
}

// PolicyFromConfig maps configuration onto a Policy.
func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		RecencyWindow:    cfg.Gates.RecencyWindow,
		MinContentLength: cfg.Gates.MinContentLength,
		Threshold:        cfg.Gates.Threshold,
		ThrottleScope:    cfg.Throttle.Scope,
	}
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.LinkSource
	Extractor  ports.ArticleExtractor
	Summarizer ports.Summarizer
	Keywords   ports.KeywordExtractor
	Evaluator  ports.Evaluator
	Notifier   ports.Notifier
	Throttle   ports.Throttle
	Recorder   ports.Recorder
	Logger     *slog.Logger
	Policy     Policy
}

// Pipeline implements discover → extract → gate → summarize → keywords →
// evaluate → threshold → notify.
type Pipeline struct {
	source     ports.LinkSource
	extractor  ports.ArticleExtractor
	summarizer ports.Summarizer
	keywords   ports.KeywordExtractor
	evaluator  ports.Evaluator
	notifier   ports.Notifier
	throttle   ports.Throttle
	recorder   ports.Recorder
	logger     *slog.Logger
	policy     Policy
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		keywords:   deps.Keywords,
		evaluator:  deps.Evaluator,
		notifier:   deps.Notifier,
		throttle:   deps.Throttle,
		recorder:   deps.Recorder,
		logger:     logger,
		policy:     deps.Policy,
	}
}

// WithLogger returns a copy of the pipeline that logs through l.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	cp := *p
	if l != nil {
		cp.logger = l
	}
	return &cp
}

// Run collects kept articles and, when there is at least one and a notifier
// is wired, posts them. A notification failure is returned to the caller.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.Report, error) {
	report, err := p.Collect(ctx, now)
	if err != nil {
		return report, err
	}

	p.logger.Info("run finished", "kept", len(report.Kept), "candidates", report.Candidates)

	if len(report.Kept) == 0 {
		p.logger.Info("no articles passed the threshold, skipping notification")
		return report, nil
	}
	if p.notifier == nil {
		p.logger.Info("notifier not configured, skipping notification")
		return report, nil
	}

	if err := p.notifier.Publish(ctx, report.Kept); err != nil {
		return report, fmt.Errorf("publish %d articles: %w", len(report.Kept), err)
	}
	report.Notified = true
	p.logger.Info("posted to chat", "articles", len(report.Kept))
	return report, nil
}

// Collect discovers candidates and runs each through the gates in order.
// Only listing failures and context cancellation abort the run.
func (p *Pipeline) Collect(ctx context.Context, now time.Time) (domain.Report, error) {
	report := domain.Report{
		StartedAt: now,
		Decisions: map[domain.Decision]int{},
	}
	if p.source == nil || p.extractor == nil {
		return report, fmt.Errorf("pipeline is missing a link source or extractor")
	}

	links, err := p.source.Discover(ctx)
	if err != nil {
		return report, fmt.Errorf("discover links: %w", err)
	}
	report.Candidates = len(links)
	p.recordCandidates(len(links))
	p.logger.Info("found articles", "count", len(links))

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		kept, decision, err := p.process(ctx, link, now)
		if err != nil {
			return report, err
		}

		report.Decisions[decision]++
		p.recordDecision(decision)
		if decision != domain.DecisionKeep {
			continue
		}

		report.Kept = append(report.Kept, kept)
		if p.policy.ThrottleScope == config.ThrottleKept {
			if err := p.wait(ctx); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

func (p *Pipeline) process(ctx context.Context, link string, now time.Time) (domain.KeptArticle, domain.Decision, error) {
	log := p.logger.With("url", link)
	log.Info("processing")

	art, err := p.extractor.Extract(ctx, link)
	switch {
	case errors.Is(err, domain.ErrMissingPublishDate):
		log.Info("missing publish date, skip", "decision", domain.DecisionMissingDate, "error", err)
		return domain.KeptArticle{}, domain.DecisionMissingDate, nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.KeptArticle{}, "", ctxErr
		}
		log.Warn("failed to extract, skip", "decision", domain.DecisionExtractFailed, "error", err)
		return domain.KeptArticle{}, domain.DecisionExtractFailed, nil
	case art.PublishedAt.IsZero():
		log.Info("missing publish date, skip", "decision", domain.DecisionMissingDate)
		return domain.KeptArticle{}, domain.DecisionMissingDate, nil
	}

	if age := now.UTC().Sub(art.PublishedAt.UTC()); age > p.policy.RecencyWindow {
		log.Info("too old, skip", "decision", domain.DecisionStale,
			"published", art.PublishedAt.Format(domain.DateLayout), "age", age.Round(time.Minute))
		return domain.KeptArticle{}, domain.DecisionStale, nil
	}

	if n := utf8.RuneCountInString(art.Content); n < p.policy.MinContentLength {
		log.Info("content too short, skip", "decision", domain.DecisionTooShort, "chars", n)
		return domain.KeptArticle{}, domain.DecisionTooShort, nil
	}

	if p.policy.ThrottleScope == config.ThrottleEvaluated {
		if err := p.wait(ctx); err != nil {
			return domain.KeptArticle{}, "", err
		}
	}

	summary := p.summarize(ctx, log, art)
	keywords := p.extractKeywords(ctx, log, summary)

	eval, evalErr := p.evaluate(ctx, summary)
	if evalErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.KeptArticle{}, "", ctxErr
		}
		p.recordModelFailure(callEvaluation)
		log.Warn("evaluation failed, score defaults to 0", "error", evalErr)
	}
	log.Info("evaluated", "score", eval.RelevanceScore, "comment", eval.Comment)

	if eval.RelevanceScore < p.policy.Threshold {
		decision := domain.DecisionLowScore
		if evalErr != nil {
			decision = domain.DecisionEvaluationFailed
		}
		log.Info("below threshold, discard", "decision", decision,
			"score", eval.RelevanceScore, "threshold", p.policy.Threshold)
		return domain.KeptArticle{}, decision, nil
	}

	log.Info("keep", "decision", domain.DecisionKeep, "score", eval.RelevanceScore, "threshold", p.policy.Threshold)
	return domain.KeptArticle{
		URL:               art.URL,
		Title:             art.Title,
		PublishedAt:       art.PublishedAt,
		Summary:           summary,
		Keywords:          keywords,
		RelevanceScore:    eval.RelevanceScore,
		EvaluationComment: eval.Comment,
	}, domain.DecisionKeep, nil
}

func (p *Pipeline) summarize(ctx context.Context, log *slog.Logger, art domain.Article) string {
	if p.summarizer == nil {
		return ""
	}
	summary, err := p.summarizer.Summarize(ctx, art.Title, art.Content)
	if err != nil {
		p.recordModelFailure(callSummary)
		log.Warn("summarize failed, using fallback", "error", err)
	}
	log.Info("summary", "text", summary)
	return summary
}

func (p *Pipeline) extractKeywords(ctx context.Context, log *slog.Logger, summary string) string {
	if p.keywords == nil {
		return ""
	}
	keywords, err := p.keywords.ExtractKeywords(ctx, summary)
	if err != nil {
		p.recordModelFailure(callKeywords)
		log.Warn("keyword extraction failed", "error", err)
		return ""
	}
	log.Info("keywords", "text", keywords)
	return keywords
}

// evaluate resolves a missing evaluator or any failure to the zero Evaluation (score 0).
func (p *Pipeline) evaluate(ctx context.Context, summary string) (domain.Evaluation, error) {
	if p.evaluator == nil {
		return domain.Evaluation{}, fmt.Errorf("%w: evaluator not configured", domain.ErrModelCall)
	}
	eval, err := p.evaluator.Evaluate(ctx, summary)
	if err != nil {
		return domain.Evaluation{}, err
	}
	return eval, nil
}

func (p *Pipeline) wait(ctx context.Context) error {
	if p.throttle == nil {
		return nil
	}
	return p.throttle.Wait(ctx)
}

func (p *Pipeline) recordCandidates(n int) {
	if p.recorder != nil {
		p.recorder.Candidates(n)
	}
}

func (p *Pipeline) recordDecision(d domain.Decision) {
	if p.recorder != nil {
		p.recorder.Decision(d)
	}
}

func (p *Pipeline) recordModelFailure(call string) {
	if p.recorder != nil {
		p.recorder.ModelFailure(call)
	}
}
