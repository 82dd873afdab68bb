package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lysyi3m/prop-comb/app/registry"
)

const (
	issuesPerPage = 50
	// maxIssuePages is a safety cap; newest-first ordering means the
	// interesting records are on the first page anyway.
	maxIssuePages = 3
)

// IssueListingFetcher pages through issue-like records sorted by creation
// time descending. Each returned item carries one issue's raw JSON; field
// extraction is the issue parser's job.
type IssueListingFetcher struct {
	client *Client
}

func NewIssueListingFetcher(client *Client) *IssueListingFetcher {
	return &IssueListingFetcher{client: client}
}

func (f *IssueListingFetcher) Run(ctx context.Context, src registry.Source, tier registry.Tier) ([]Item, error) {
	var items []Item

	for page := 1; page <= maxIssuePages; page++ {
		url := issuePageURL(tier.URL, page)

		var raw []json.RawMessage
		if err := f.client.GetJSON(ctx, url, &raw); err != nil {
			if len(items) > 0 {
				// A later page failing does not invalidate what the
				// earlier pages already produced.
				return items, nil
			}
			return nil, err
		}

		matched := 0
		for _, msg := range raw {
			var head struct {
				Number  int    `json:"number"`
				HTMLURL string `json:"html_url"`
			}
			if err := json.Unmarshal(msg, &head); err != nil || head.Number == 0 {
				continue
			}
			matched++
			items = append(items, Item{
				Name:    strconv.Itoa(head.Number),
				URL:     head.HTMLURL,
				Number:  head.Number,
				Content: msg,
			})
		}

		if matched == 0 || len(raw) < issuesPerPage {
			break
		}

		f.client.Pause(ctx)
	}

	if len(items) == 0 {
		return nil, emptyError(tier.URL)
	}

	return items, nil
}

func issuePageURL(base string, page int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sstate=all&sort=created&direction=desc&per_page=%d&page=%d",
		base, sep, issuesPerPage, page)
}
