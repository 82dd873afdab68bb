package fetch

import (
	"context"

	"github.com/lysyi3m/prop-comb/app/registry"
)

// CommitFeedFetcher retrieves the upstream repository's commits Atom feed
// as a single item for the commit-feed parser.
type CommitFeedFetcher struct {
	client *Client
}

func NewCommitFeedFetcher(client *Client) *CommitFeedFetcher {
	return &CommitFeedFetcher{client: client}
}

func (f *CommitFeedFetcher) Run(ctx context.Context, src registry.Source, tier registry.Tier) ([]Item, error) {
	content, err := f.client.Get(ctx, tier.URL)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, emptyError(tier.URL)
	}

	return []Item{{
		Name:    tier.URL,
		URL:     tier.URL,
		Content: content,
	}}, nil
}
