package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/scanner"
)

type fixedScanner struct {
	hrefs []string
	err   error
}

func (f fixedScanner) Name() string { return "html" }

func (f fixedScanner) Scan(context.Context, scanner.Request) ([]string, error) {
	return f.hrefs, f.err
}

func testSite(base string) config.SiteConfig {
	return config.SiteConfig{
		Name:             "test",
		BaseURL:          base,
		ListingPath:      "/blog/",
		Scanner:          "html",
		ArticlePrefix:    "/blog/",
		ExcludedURLs:     []string{base + "/blog/rss.xml"},
		ExcludedPrefixes: []string{"/blog/author/", "/blog/rss.xml"},
	}
}

func sourceWith(site config.SiteConfig, sc scanner.Scanner) *StrategySource {
	reg := scanner.NewRegistry()
	reg.Register(sc)
	return NewStrategySource(reg, site, nil)
}

func TestDiscoverExcludesByPrefix(t *testing.T) {
	t.Parallel()

	site := testSite("https://blog.example.com")
	src := sourceWith(site, fixedScanner{hrefs: []string{
		"/blog/paywall-tests/",
		"/blog/author/jane/",
		"/blog/web-checkout/",
	}})

	links, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://blog.example.com/blog/paywall-tests/",
		"https://blog.example.com/blog/web-checkout/",
	}, links)
}

func TestDiscoverAppliesEveryRule(t *testing.T) {
	t.Parallel()

	site := testSite("https://blog.example.com")
	src := sourceWith(site, fixedScanner{hrefs: []string{
		"/blog/",
		"/blog",
		"https://blog.example.com/blog/",
		"/blog/rss.xml",
		"https://blog.example.com/blog/rss.xml",
		"/blog/author/sam",
		"/pricing/",
		"https://other.example.org/blog/elsewhere/",
		"mailto:team@example.com",
		"javascript:void(0)",
		"/blog/kept-one/#comments",
		"/blog/kept-one/",
		"https://blog.example.com/blog/kept-two/",
		"/blog/kept-two/",
		"%zz",
	}})

	links, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://blog.example.com/blog/kept-one/",
		"https://blog.example.com/blog/kept-two/",
	}, links)

	listing := site.ListingURL()
	for _, link := range links {
		require.NotEqual(t, listing, link)
		require.False(t, strings.HasPrefix(link, "https://blog.example.com/blog/author/"))
		require.NotContains(t, site.ExcludedURLs, link)
	}
}

func TestDiscoverExcludedLiteralURL(t *testing.T) {
	t.Parallel()

	site := testSite("https://blog.example.com")
	site.ExcludedPrefixes = nil
	site.ExcludedURLs = []string{"/blog/sponsored-post/"}
	src := sourceWith(site, fixedScanner{hrefs: []string{
		"https://blog.example.com/blog/sponsored-post/",
		"/blog/organic-post/",
	}})

	links, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"https://blog.example.com/blog/organic-post/"}, links)
}

func TestDiscoverPropagatesScanFailure(t *testing.T) {
	t.Parallel()

	src := sourceWith(testSite("https://blog.example.com"), fixedScanner{err: domain.ErrFetch})

	_, err := src.Discover(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrFetch))
}

func TestDiscoverUnknownScanner(t *testing.T) {
	t.Parallel()

	site := testSite("https://blog.example.com")
	site.Scanner = "rss"
	src := sourceWith(site, fixedScanner{})

	_, err := src.Discover(context.Background())
	require.ErrorContains(t, err, "rss is not registered")
}

func TestHTMLScannerEndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/", r.URL.Path)
		assert.Equal(t, "BlogScout-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`
		<html><body>
		  <a href="/blog/">Blog</a>
		  <a href="/blog/first-post/">First</a>
		  <a href="/blog/author/jane/">Jane</a>
		  <a href="/blog/second-post/">Second</a>
		  <a href="/blog/first-post/">First again</a>
		  <a>no href</a>
		</body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "BlogScout-test")
	reg := scanner.NewRegistry()
	reg.Register(NewHTMLScanner(fetcher))
	src := NewStrategySource(reg, testSite(server.URL), nil)

	links, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		server.URL + "/blog/first-post/",
		server.URL + "/blog/second-post/",
	}, links)
}

func TestHTMLScannerListingUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := NewHTMLScanner(NewFetcher(server.Client(), ""))
	_, err := sc.Scan(context.Background(), scanner.Request{SiteName: "test", ListingURL: server.URL + "/blog/"})
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestRSSScannerReadsItemLinks(t *testing.T) {
	t.Parallel()

	var base string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel>
  <title>Blog</title>
  <item><title>One</title><link>` + base + `/blog/one/</link></item>
  <item><title>Two</title><link>` + base + `/blog/two/</link></item>
  <item><title>No link</title></item>
</channel></rss>`))
	}))
	defer server.Close()
	base = server.URL

	sc := NewRSSScanner(NewFetcher(server.Client(), ""))
	links, err := sc.Scan(context.Background(), scanner.Request{SiteName: "test", ListingURL: server.URL + "/blog/rss.xml"})
	require.NoError(t, err)
	require.Equal(t, []string{base + "/blog/one/", base + "/blog/two/"}, links)
}
