package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "BLOGSCOUT_CONFIG"

// Scanner strategies understood by the link discoverer.
const (
	ScannerHTML = "html"
	ScannerRSS  = "rss"
)

// Date parsing modes for the article extractor.
const (
	DateParsingStrict  = "strict"
	DateParsingLenient = "lenient"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Throttle scopes: where the pipeline waits on the rate limiter.
const (
	ThrottleEvaluated = "evaluated"
	ThrottleKept      = "kept"
	ThrottleNone      = "none"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Site     SiteConfig     `yaml:"site"`
	HTTP     HTTPConfig     `yaml:"http"`
	Gates    GateConfig     `yaml:"gates"`
	LLM      LLMConfig      `yaml:"llm"`
	Rubric   RubricConfig   `yaml:"rubric"`
	Slack    SlackConfig    `yaml:"slack"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// SiteConfig describes the blog to scan and which of its links count as articles.
type SiteConfig struct {
	Name             string   `yaml:"name" env:"SITE_NAME"`
	BaseURL          string   `yaml:"baseUrl" env:"SITE_BASE_URL"`
	ListingPath      string   `yaml:"listingPath" env:"SITE_LISTING_PATH"`
	Scanner          string   `yaml:"scanner" env:"SITE_SCANNER"`
	ArticlePrefix    string   `yaml:"articlePrefix" env:"SITE_ARTICLE_PREFIX"`
	ExcludedURLs     []string `yaml:"excludedUrls" env:"SITE_EXCLUDED_URLS" envSeparator:","`
	ExcludedPrefixes []string `yaml:"excludedPrefixes" env:"SITE_EXCLUDED_PREFIXES" envSeparator:","`
}

// ListingURL joins the base URL and listing path.
func (s SiteConfig) ListingURL() string {
	base := strings.TrimSuffix(s.BaseURL, "/")
	path := s.ListingPath
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// HTTPConfig tunes page downloads.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT"`
	UserAgent string        `yaml:"userAgent" env:"HTTP_USER_AGENT"`
}

// GateConfig holds the pipeline's pass/fail parameters.
type GateConfig struct {
	RecencyWindow    time.Duration `yaml:"recencyWindow" env:"RECENCY_WINDOW"`
	MinContentLength int           `yaml:"minContentLength" env:"MIN_CONTENT_LENGTH"`
	MaxContentLength int           `yaml:"maxContentLength" env:"MAX_CONTENT_LENGTH"`
	Threshold        int           `yaml:"threshold" env:"RELEVANCE_THRESHOLD"`
	DateParsing      string        `yaml:"dateParsing" env:"DATE_PARSING"`
}

// LLMConfig defines how to contact the language model and how each call is tuned.
type LLMConfig struct {
	Provider   string        `yaml:"provider" env:"LLM_PROVIDER"`
	Endpoint   string        `yaml:"endpoint" env:"LLM_ENDPOINT"`
	APIKey     string        `yaml:"apiKey" env:"LLM_API_KEY"`
	Timeout    time.Duration `yaml:"timeout" env:"LLM_TIMEOUT"`
	Summary    CallConfig    `yaml:"summary" envPrefix:"LLM_SUMMARY_"`
	Keywords   CallConfig    `yaml:"keywords" envPrefix:"LLM_KEYWORDS_"`
	Evaluation CallConfig    `yaml:"evaluation" envPrefix:"LLM_EVALUATION_"`
}

// CallConfig is the per-call model choice.
type CallConfig struct {
	Model       string  `yaml:"model" env:"MODEL"`
	Temperature float32 `yaml:"temperature" env:"TEMPERATURE"`
}

// RubricConfig is the evaluator's scoring policy.
type RubricConfig struct {
	Role     string          `yaml:"role"`
	Audience string          `yaml:"audience"`
	Bands    []RubricBand    `yaml:"bands"`
	Examples []RubricExample `yaml:"examples"`
}

// RubricBand maps a score range to a topic category.
type RubricBand struct {
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Topic string `yaml:"topic"`
}

// RubricExample is a worked judgment shown to the model.
type RubricExample struct {
	Article string `yaml:"article"`
	Score   int    `yaml:"score"`
}

// SlackConfig wires the incoming webhook.
type SlackConfig struct {
	WebhookURL string        `yaml:"webhookUrl" env:"SLACK_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"SLACK_TIMEOUT"`
}

// ThrottleConfig spaces out model-heavy work.
type ThrottleConfig struct {
	Scope    string        `yaml:"scope" env:"THROTTLE_SCOPE"`
	Interval time.Duration `yaml:"interval" env:"THROTTLE_INTERVAL"`
}

// MetricsConfig points at an optional Prometheus pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"METRICS_PUSHGATEWAY_URL"`
	Job            string `yaml:"job" env:"METRICS_JOB"`
}

// Load overlays the YAML file (explicit path, else $BLOGSCOUT_CONFIG) on the
// defaults, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	listing, err := url.Parse(c.Site.ListingURL())
	if err != nil || listing.Scheme == "" || listing.Host == "" {
		return fmt.Errorf("config: site base url %q is not absolute", c.Site.BaseURL)
	}
	if !oneOf(c.Site.Scanner, ScannerHTML, ScannerRSS) {
		return fmt.Errorf("config: unknown scanner %q", c.Site.Scanner)
	}
	if c.Gates.RecencyWindow <= 0 {
		return fmt.Errorf("config: recency window must be positive")
	}
	if c.Gates.MinContentLength < 0 || c.Gates.MaxContentLength <= 0 {
		return fmt.Errorf("config: content length bounds are invalid")
	}
	if c.Gates.Threshold < 0 || c.Gates.Threshold > 100 {
		return fmt.Errorf("config: threshold %d outside 0-100", c.Gates.Threshold)
	}
	if !oneOf(c.Gates.DateParsing, DateParsingStrict, DateParsingLenient) {
		return fmt.Errorf("config: unknown date parsing mode %q", c.Gates.DateParsing)
	}
	if !oneOf(c.LLM.Provider, ProviderOpenAI, ProviderGemini) {
		return fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config: llm api key is required")
	}
	for name, call := range map[string]CallConfig{
		"summary":    c.LLM.Summary,
		"keywords":   c.LLM.Keywords,
		"evaluation": c.LLM.Evaluation,
	} {
		if call.Model == "" {
			return fmt.Errorf("config: llm %s model is required", name)
		}
		if call.Temperature < 0 || call.Temperature > 2 {
			return fmt.Errorf("config: llm %s temperature %.2f outside 0-2", name, call.Temperature)
		}
	}
	if len(c.Rubric.Bands) == 0 {
		return fmt.Errorf("config: rubric needs at least one band")
	}
	if !oneOf(c.Throttle.Scope, ThrottleEvaluated, ThrottleKept, ThrottleNone) {
		return fmt.Errorf("config: unknown throttle scope %q", c.Throttle.Scope)
	}
	if c.Throttle.Interval < 0 {
		return fmt.Errorf("config: throttle interval must not be negative")
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Default returns the settings for the RevenueCat blog and the marketing rubric.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Site: SiteConfig{
			Name:             "revenuecat",
			BaseURL:          "https://www.revenuecat.com",
			ListingPath:      "/blog/",
			Scanner:          ScannerHTML,
			ArticlePrefix:    "/blog/",
			ExcludedURLs:     []string{"https://www.revenuecat.com/blog/rss.xml"},
			ExcludedPrefixes: []string{"/blog/author/", "/blog/rss.xml"},
		},
		HTTP: HTTPConfig{Timeout: 20 * time.Second, UserAgent: "BlogScout/1.0"},
		Gates: GateConfig{
			RecencyWindow:    168 * time.Hour,
			MinContentLength: 300,
			MaxContentLength: 15000,
			Threshold:        70,
			DateParsing:      DateParsingStrict,
		},
		LLM: LLMConfig{
			Provider:   ProviderOpenAI,
			Timeout:    60 * time.Second,
			Summary:    CallConfig{Model: "gpt-4.1-nano-2025-04-14", Temperature: 0.3},
			Keywords:   CallConfig{Model: "gpt-4.1-nano-2025-04-14", Temperature: 0},
			Evaluation: CallConfig{Model: "gpt-4.1-2025-04-14", Temperature: 0.3},
		},
		Rubric:   DefaultRubric(),
		Slack:    SlackConfig{Timeout: 10 * time.Second},
		Throttle: ThrottleConfig{Scope: ThrottleEvaluated, Interval: time.Second},
		Metrics:  MetricsConfig{Job: "blogscout"},
	}
}

// DefaultRubric scores articles for a paid-ads agency serving subscription apps.
func DefaultRubric() RubricConfig {
	return RubricConfig{
		Role:     "You are an expert content evaluator for a marketing agency focused on running paid ads for app and web subscription businesses.",
		Audience: "The audience is marketing managers, growth leads, marketing analysts, and creative directors. Not engineers or product managers.",
		Bands: []RubricBand{
			{Min: 80, Max: 100, Topic: "Core app or web subscription marketing topics (e.g. campaign optimization, subscription monetization strategies, incrementality test)."},
			{Min: 60, Max: 79, Topic: "Strongly related marketing measurement topics (conversion API, media mix modeling, ROAS, SKAN, SKAdNetwork, MMP)."},
			{Min: 40, Max: 59, Topic: "Indirectly related topics or product strategies with marketing implications like churn reduction, LTV maximization, etc."},
			{Min: 0, Max: 39, Topic: "Primarily engineering or developer-only content with low marketing relevance."},
		},
		Examples: []RubricExample{
			{Article: "An article about paywall design tests to improve subscription churn", Score: 75},
			{Article: "An article about apps seeing reduction in revenue after switching to web paywall from app subscription", Score: 85},
			{Article: "An article about Google introducing new campaign types focusing on AI Overview", Score: 85},
			{Article: "An article about an app changing targeting for their marketing campaigns to optimize ROAS", Score: 80},
			{Article: "An article about SDK update on RevenueCat", Score: 30},
		},
	}
}
