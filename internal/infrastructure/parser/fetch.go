package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BlogScout/internal/domain"
)

const (
	defaultUserAgent = "BlogScout/1.0"
	maxPageBytes     = 8 << 20
)

// Fetcher downloads HTML pages with a shared client and user agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Client exposes the underlying HTTP client for adapters that drive their own requests.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Document GETs pageURL and parses it. Transport errors and non-200 statuses
// wrap domain.ErrFetch; malformed bodies wrap domain.ErrParse.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", domain.ErrFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFetch, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, pageURL, err)
	}

	return doc, nil
}
