package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"BlogScout/internal/domain"
	"BlogScout/internal/scanner"
)

// RSSScanner reads article links from the blog's feed instead of its HTML index.
type RSSScanner struct {
	fetcher *Fetcher
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner builds the feed-based listing strategy.
func NewRSSScanner(fetcher *Fetcher) *RSSScanner {
	if fetcher == nil {
		fetcher = NewFetcher(nil, "")
	}
	return &RSSScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan parses the feed at the listing URL and returns each item's link.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]string, error) {
	fp := gofeed.NewParser()
	fp.Client = r.fetcher.Client()
	fp.UserAgent = r.fetcher.userAgent

	feed, err := fp.ParseURLWithContext(req.ListingURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w: %v", req.SiteName, domain.ErrFetch, err)
	}

	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if link := strings.TrimSpace(item.Link); link != "" {
			links = append(links, link)
		}
	}
	return links, nil
}
