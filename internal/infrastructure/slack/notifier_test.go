package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogScout/internal/domain"
)

func sampleArticle() domain.KeptArticle {
	return domain.KeptArticle{
		URL:               "https://blog.example.com/blog/web-paywalls/",
		Title:             "Web Paywalls",
		PublishedAt:       time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC),
		Summary:           "Apps that moved to web paywalls saw revenue shifts.",
		Keywords:          "web paywall, revenue, subscriptions",
		RelevanceScore:    85,
		EvaluationComment: "core topic",
	}
}

func TestFormatArticle(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"*<https://blog.example.com/blog/web-paywalls/|Web Paywalls>* (_2025-11-08_)\n"+
			"Apps that moved to web paywalls saw revenue shifts.\n"+
			"_Relevance Score: 85. Keywords: web paywall, revenue, subscriptions_",
		FormatArticle(sampleArticle()))
}

type postedBlock struct {
	Type string `json:"type"`
	Text *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"text"`
}

func TestPublishPostsBlockPairPerArticle(t *testing.T) {
	t.Parallel()

	var payload struct {
		Blocks []postedBlock `json:"blocks"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	second := sampleArticle()
	second.Title = "Second"

	n := NewNotifier(server.URL, server.Client(), 0)
	require.NoError(t, n.Publish(context.Background(), []domain.KeptArticle{sampleArticle(), second}))

	require.Len(t, payload.Blocks, 4)
	require.Equal(t, "section", payload.Blocks[0].Type)
	require.NotNil(t, payload.Blocks[0].Text)
	require.Equal(t, "mrkdwn", payload.Blocks[0].Text.Type)
	require.Equal(t, FormatArticle(sampleArticle()), payload.Blocks[0].Text.Text)
	require.Equal(t, "divider", payload.Blocks[1].Type)
	require.Equal(t, "section", payload.Blocks[2].Type)
	require.Contains(t, payload.Blocks[2].Text.Text, "|Second>*")
	require.Equal(t, "divider", payload.Blocks[3].Type)
}

func TestPublishFailsOnErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewNotifier(server.URL, server.Client(), 0).Publish(context.Background(), []domain.KeptArticle{sampleArticle()})
	require.ErrorIs(t, err, domain.ErrNotify)
}

func TestPublishAcceptsAnySuccessStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusAccepted, http.StatusNoContent} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		err := NewNotifier(server.URL, server.Client(), 0).Publish(context.Background(), []domain.KeptArticle{sampleArticle()})
		server.Close()
		require.NoError(t, err, "status %d", status)
	}
}

func TestPublishRequiresWebhook(t *testing.T) {
	t.Parallel()

	err := NewNotifier("", nil, time.Second).Publish(context.Background(), []domain.KeptArticle{sampleArticle()})
	require.ErrorIs(t, err, domain.ErrNotify)
}
