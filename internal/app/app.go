package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/infrastructure/llm"
	"BlogScout/internal/infrastructure/ml"
	"BlogScout/internal/infrastructure/parser"
	"BlogScout/internal/infrastructure/ratelimit"
	slacknotify "BlogScout/internal/infrastructure/slack"
	"BlogScout/internal/logging"
	"BlogScout/internal/metrics"
	"BlogScout/internal/ports"
	"BlogScout/internal/scanner"
	"BlogScout/internal/usecase"
)

// Options toggles behavior chosen on the command line.
type Options struct {
	// DryRun collects and scores articles but never posts to chat.
	DryRun bool
}

// Application wires configs to use cases and owns adapter lifecycles.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	llm      llm.Client
	recorder *metrics.Recorder
	pipeline *usecase.Pipeline
	now      func() time.Time
}

// New builds a runnable application instance for one pass over the blog.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := parser.NewFetcher(&http.Client{Timeout: cfg.HTTP.Timeout}, cfg.HTTP.UserAgent)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewHTMLScanner(fetcher))
	registry.Register(parser.NewRSSScanner(fetcher))

	source := parser.NewStrategySource(registry, cfg.Site, baseLogger.With("component", "source"))
	extractor := parser.NewArticleExtractor(fetcher, cfg.Gates.MaxContentLength, cfg.Gates.DateParsing)

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	var notifier ports.Notifier
	if !opts.DryRun {
		notifier = slacknotify.NewNotifier(cfg.Slack.WebhookURL, nil, cfg.Slack.Timeout)
	}

	recorder := metrics.NewRecorder()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Extractor:  extractor,
		Summarizer: ml.NewSummarizer(client, cfg.LLM.Summary),
		Keywords:   ml.NewKeywordExtractor(client, cfg.LLM.Keywords),
		Evaluator:  ml.NewEvaluator(client, cfg.LLM.Evaluation, cfg.Rubric),
		Notifier:   notifier,
		Throttle:   ratelimit.NewThrottle(cfg.Throttle.Interval),
		Recorder:   recorder,
		Policy:     usecase.PolicyFromConfig(cfg),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		llm:      client,
		recorder: recorder,
		pipeline: pipeline,
		now:      time.Now,
	}, nil
}

// Run performs a single pipeline execution tagged with a fresh run id.
// Metrics are pushed afterwards when a pushgateway is configured; a push
// failure is logged and never fails the run.
func (a *Application) Run(ctx context.Context) (domain.Report, error) {
	runID := uuid.NewString()
	log := a.logger.With("run_id", runID)
	log.Info("run started", "site", a.cfg.Site.Name, "listing", a.cfg.Site.ListingURL())

	report, err := a.pipeline.
		WithLogger(log.With("component", "pipeline")).
		Run(ctx, a.now().UTC())
	report.RunID = runID

	if a.cfg.Metrics.PushgatewayURL != "" {
		if pushErr := a.recorder.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job, a.now()); pushErr != nil {
			log.Warn("metrics push failed", "error", pushErr)
		}
	}

	if err != nil {
		log.Error("run failed", "error", err)
		return report, err
	}
	log.Info("run complete", "candidates", report.Candidates, "kept", len(report.Kept), "notified", report.Notified)
	return report, nil
}

// Close releases the model client.
func (a *Application) Close() error {
	if a.llm == nil {
		return nil
	}
	return a.llm.Close()
}
