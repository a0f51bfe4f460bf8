package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// Notifier posts kept articles to a Slack incoming webhook as Block Kit sections.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the webhook; a nil client gets the given timeout (10s when unset).
func NewNotifier(webhookURL string, client *http.Client, timeout time.Duration) *Notifier {
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Notifier{webhookURL: webhookURL, client: client}
}

// Publish sends one message containing a section and a divider per article.
// Any non-2xx response wraps domain.ErrNotify.
func (n *Notifier) Publish(ctx context.Context, articles []domain.KeptArticle) error {
	if n.webhookURL == "" || n.client == nil {
		return fmt.Errorf("%w: slack notifier misconfigured", domain.ErrNotify)
	}

	msg := &slack.WebhookMessage{Blocks: &slack.Blocks{BlockSet: BuildBlocks(articles)}}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, msg); err != nil {
		// the library accepts only 200; any other 2xx still means delivered
		var sce slack.StatusCodeError
		if errors.As(err, &sce) && sce.Code/100 == 2 {
			return nil
		}
		return fmt.Errorf("%w: post webhook: %w", domain.ErrNotify, err)
	}
	return nil
}

// BuildBlocks renders the Block Kit payload for the kept articles.
func BuildBlocks(articles []domain.KeptArticle) []slack.Block {
	blocks := make([]slack.Block, 0, len(articles)*2)
	for _, art := range articles {
		text := slack.NewTextBlockObject(slack.MarkdownType, FormatArticle(art), false, false)
		blocks = append(blocks, slack.NewSectionBlock(text, nil, nil), slack.NewDividerBlock())
	}
	return blocks
}

// FormatArticle is the mrkdwn body of one article section.
func FormatArticle(art domain.KeptArticle) string {
	return fmt.Sprintf("*<%s|%s>* (_%s_)\n%s\n_Relevance Score: %d. Keywords: %s_",
		art.URL,
		art.Title,
		art.PublishedAt.Format(domain.DateLayout),
		art.Summary,
		art.RelevanceScore,
		art.Keywords,
	)
}
