package fetch

import (
	"context"

	"github.com/lysyi3m/prop-comb/app/registry"
)

// DirectPageFetcher retrieves an already-rendered listing page (an HTML
// index or a raw README) as a single item, with no list-then-fetch
// indirection.
type DirectPageFetcher struct {
	client *Client
}

func NewDirectPageFetcher(client *Client) *DirectPageFetcher {
	return &DirectPageFetcher{client: client}
}

func (f *DirectPageFetcher) Run(ctx context.Context, src registry.Source, tier registry.Tier) ([]Item, error) {
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
