package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

const (
	noTitle           = "No Title"
	defaultMaxContent = 15000
)

// ArticleExtractor pulls title, paragraph text and publish date out of an article page.
type ArticleExtractor struct {
	fetcher     *Fetcher
	maxContent  int
	dateParsing string
}

var _ ports.ArticleExtractor = (*ArticleExtractor)(nil)

// NewArticleExtractor builds an extractor; maxContent <= 0 falls back to 15000 characters.
func NewArticleExtractor(fetcher *Fetcher, maxContent int, dateParsing string) *ArticleExtractor {
	if fetcher == nil {
		fetcher = NewFetcher(nil, "")
	}
	if maxContent <= 0 {
		maxContent = defaultMaxContent
	}
	if dateParsing == "" {
		dateParsing = config.DateParsingStrict
	}
	return &ArticleExtractor{fetcher: fetcher, maxContent: maxContent, dateParsing: dateParsing}
}

// Extract downloads url and builds the Article. Failures wrap domain.ErrFetch,
// domain.ErrParse or domain.ErrMissingPublishDate.
func (e *ArticleExtractor) Extract(ctx context.Context, url string) (domain.Article, error) {
	doc, err := e.fetcher.Document(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}

	publishedAt, err := e.publishDate(doc)
	if err != nil {
		return domain.Article{}, fmt.Errorf("article %s: %w", url, err)
	}

	return domain.Article{
		URL:         url,
		Title:       extractTitle(doc),
		Content:     truncateRunes(extractParagraphs(doc), e.maxContent),
		PublishedAt: publishedAt,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return noTitle
	}
	return strings.TrimSpace(h1.Text())
}

func extractParagraphs(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(p.Text()))
	})
	return strings.Join(parts, "\n")
}

// publishDate reads the first <time> element's datetime attribute as a UTC calendar date.
func (e *ArticleExtractor) publishDate(doc *goquery.Document) (time.Time, error) {
	tag := doc.Find("time").First()
	if tag.Length() == 0 {
		return time.Time{}, fmt.Errorf("%w: no time element", domain.ErrMissingPublishDate)
	}
	raw, ok := tag.Attr("datetime")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%w: time element has no datetime", domain.ErrMissingPublishDate)
	}

	if e.dateParsing == config.DateParsingLenient {
		parsed, err := dateparse.ParseIn(raw, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", domain.ErrMissingPublishDate, raw, err)
		}
		parsed = parsed.UTC()
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	parsed, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", domain.ErrMissingPublishDate, raw, err)
	}
	return parsed, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
