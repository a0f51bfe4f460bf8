package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"BlogScout/internal/config"
	"BlogScout/internal/ports"
	"BlogScout/internal/scanner"
)

// StrategySource implements ports.LinkSource via a registered scanner strategy
// and the site's exclusion rules.
type StrategySource struct {
	registry *scanner.Registry
	site     config.SiteConfig
	logger   *slog.Logger
}

var _ ports.LinkSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with the configured site.
func NewStrategySource(reg *scanner.Registry, site config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		site:     site,
		logger:   log,
	}
}

// Discover runs the site's scanner and returns sorted, de-duplicated absolute
// article URLs that survive the exclusion rules.
func (s *StrategySource) Discover(ctx context.Context) ([]string, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", s.site.Name, err)
	}

	listingURL := s.site.ListingURL()
	s.debug("scan listing", "site", s.site.Name, "scanner", strategy.Name(), "url", listingURL)

	raw, err := strategy.Scan(ctx, scanner.Request{SiteName: s.site.Name, ListingURL: listingURL})
	if err != nil {
		return nil, fmt.Errorf("scan site %s: %w", s.site.Name, err)
	}

	rules, err := newLinkRules(s.site)
	if err != nil {
		return nil, err
	}

	links := rules.filter(raw)
	s.debug("listing produced links", "site", s.site.Name, "raw", len(raw), "kept", len(links))
	return links, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// linkRules decides which listing hrefs are article candidates.
type linkRules struct {
	listing          *url.URL
	articlePrefix    string
	excludedURLs     map[string]struct{}
	excludedPrefixes []string
}

func newLinkRules(site config.SiteConfig) (*linkRules, error) {
	listing, err := url.Parse(site.ListingURL())
	if err != nil || listing.Host == "" {
		return nil, fmt.Errorf("site %s: invalid listing url %q", site.Name, site.ListingURL())
	}

	excluded := make(map[string]struct{}, len(site.ExcludedURLs)*2)
	for _, raw := range site.ExcludedURLs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		excluded[raw] = struct{}{}
		if abs, ok := resolve(listing, raw); ok {
			excluded[abs.String()] = struct{}{}
		}
	}

	prefix := site.ArticlePrefix
	if prefix == "" {
		prefix = "/"
	}

	return &linkRules{
		listing:          listing,
		articlePrefix:    prefix,
		excludedURLs:     excluded,
		excludedPrefixes: site.ExcludedPrefixes,
	}, nil
}

func (r *linkRules) filter(hrefs []string) []string {
	seen := make(map[string]struct{}, len(hrefs))
	for _, href := range hrefs {
		if link, ok := r.accept(href); ok {
			seen[link] = struct{}{}
		}
	}

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

func (r *linkRules) accept(href string) (string, bool) {
	if _, skip := r.excludedURLs[href]; skip {
		return "", false
	}

	abs, ok := resolve(r.listing, href)
	if !ok || !strings.EqualFold(abs.Host, r.listing.Host) {
		return "", false
	}

	path := abs.EscapedPath()
	if !strings.HasPrefix(path, r.articlePrefix) || path == r.articlePrefix {
		return "", false
	}
	for _, prefix := range r.excludedPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return "", false
		}
	}
	if samePage(abs, r.listing) {
		return "", false
	}

	link := abs.String()
	if _, skip := r.excludedURLs[link]; skip {
		return "", false
	}
	return link, true
}

// resolve turns href into an absolute http(s) URL without fragment.
func resolve(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil, false
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs, true
}

func samePage(a, b *url.URL) bool {
	return strings.EqualFold(a.Host, b.Host) &&
		strings.TrimSuffix(a.Path, "/") == strings.TrimSuffix(b.Path, "/") &&
		a.RawQuery == b.RawQuery
}
