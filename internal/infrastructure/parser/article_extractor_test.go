package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"BlogScout/internal/config"
	"BlogScout/internal/domain"
)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func extract(t *testing.T, body, dateParsing string) (domain.Article, error) {
	t.Helper()
	server := serveHTML(t, body)
	ex := NewArticleExtractor(NewFetcher(server.Client(), ""), 0, dateParsing)
	return ex.Extract(context.Background(), server.URL+"/blog/post/")
}

func TestExtractArticle(t *testing.T) {
	t.Parallel()

	art, err := extract(t, `
	<html><body>
	  <h1>  Web Paywalls in 2025  </h1>
	  <h1>Second heading</h1>
	  <time datetime="2025-11-08">Nov 8</time>
	  <p> First paragraph. </p>
	  <p>Second <b>bold</b> paragraph.</p>
	</body></html>`, config.DateParsingStrict)
	require.NoError(t, err)

	require.Equal(t, "Web Paywalls in 2025", art.Title)
	require.Equal(t, "First paragraph.\nSecond bold paragraph.", art.Content)
	require.Equal(t, time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC), art.PublishedAt)
	require.True(t, strings.HasSuffix(art.URL, "/blog/post/"))
}

func TestExtractArticleWithoutHeading(t *testing.T) {
	t.Parallel()

	art, err := extract(t, `<time datetime="2025-11-08"></time><p>text</p>`, config.DateParsingStrict)
	require.NoError(t, err)
	require.Equal(t, "No Title", art.Title)
}

func TestExtractArticleTruncatesContent(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<time datetime="2025-11-08"></time>`)
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "<p>%s</p>", strings.Repeat("é", 50))
	}

	art, err := extract(t, b.String(), config.DateParsingStrict)
	require.NoError(t, err)
	require.Equal(t, 15000, utf8.RuneCountInString(art.Content))
	require.True(t, utf8.ValidString(art.Content))
}

func TestExtractArticleDateFailures(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no time element":   `<h1>T</h1><p>body</p>`,
		"no datetime attr":  `<time>Nov 8, 2025</time>`,
		"empty datetime":    `<time datetime=" "></time>`,
		"timestamp, strict": `<time datetime="2025-11-08T10:00:00Z"></time>`,
		"garbage":           `<time datetime="yesterday"></time>`,
		"first time wins":   `<time>undated</time><time datetime="2025-11-08"></time>`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := extract(t, body, config.DateParsingStrict)
			require.ErrorIs(t, err, domain.ErrMissingPublishDate)
		})
	}
}

func TestExtractArticleLenientDates(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"2025-11-08":                time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC),
		"2025-11-08T10:00:00Z":      time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC),
		"2025-11-08T22:30:00-05:00": time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		art, err := extract(t, `<time datetime="`+raw+`"></time>`, config.DateParsingLenient)
		require.NoError(t, err, raw)
		require.Equal(t, want, art.PublishedAt, raw)
	}

	_, err := extract(t, `<time datetime="not a date at all"></time>`, config.DateParsingLenient)
	require.ErrorIs(t, err, domain.ErrMissingPublishDate)
}

func TestExtractArticleHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	ex := NewArticleExtractor(NewFetcher(server.Client(), ""), 0, "")
	_, err := ex.Extract(context.Background(), server.URL+"/blog/gone/")
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", truncateRunes("abc", 0))
	require.Equal(t, "ab", truncateRunes("abc", 2))
	require.Equal(t, "abc", truncateRunes("abc", 5))
	require.Equal(t, "日本", truncateRunes("日本語", 2))
}
