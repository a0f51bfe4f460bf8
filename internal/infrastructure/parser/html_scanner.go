package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BlogScout/internal/scanner"
)

// HTMLScanner collects every anchor href on the listing page.
type HTMLScanner struct {
	fetcher *Fetcher
}

var _ scanner.Scanner = (*HTMLScanner)(nil)

// NewHTMLScanner builds the anchor-based listing strategy.
func NewHTMLScanner(fetcher *Fetcher) *HTMLScanner {
	if fetcher == nil {
		fetcher = NewFetcher(nil, "")
	}
	return &HTMLScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (h *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches the listing page and returns raw href values in document order.
func (h *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]string, error) {
	doc, err := h.fetcher.Document(ctx, req.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", req.SiteName, err)
	}
	return anchorHrefs(doc), nil
}

func anchorHrefs(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href = strings.TrimSpace(href); href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
