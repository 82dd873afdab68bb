package parse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability"

	"github.com/lysyi3m/prop-comb/app/fetch"
)

var titlePrefix = regexp.MustCompile(`(?i)^[A-Z]{2,4}[-\s]?\d+\s*[:\-–]\s*`)

// PageTitles recovers a proposal's title by fetching its own page and
// extracting the document title. Used sparingly when a listing carries
// links but no usable anchor text.
type PageTitles struct {
	client *fetch.Client
}

func NewPageTitles(client *fetch.Client) *PageTitles {
	return &PageTitles{client: client}
}

func (t *PageTitles) Recover(ctx context.Context, url string) (string, error) {
	content, err := t.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(string(content)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract title: %w", err)
	}

	title := strings.TrimSpace(article.Title)
	title = titlePrefix.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if !meaningfulTitle(title) {
		return "", fmt.Errorf("no usable title on page")
	}
	return title, nil
}
