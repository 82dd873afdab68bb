package fetch

import (
	"context"

	"github.com/lysyi3m/prop-comb/app/registry"
)

// Item is one raw unit of upstream content handed to a format parser.
// Fetchers never interpret Content; they only retrieve and filter.
type Item struct {
	// Name identifies the item for diagnostics (file name, issue id,
	// page URL).
	Name string
	// URL is the human-facing link for the item, when the listing
	// provides one.
	URL string
	// Number is extracted from the listing (filename pattern match or
	// issue number); 0 when the listing carries no number.
	Number int
	// Content is the raw payload: file body, single-issue JSON, page
	// HTML or feed XML, depending on the strategy.
	Content []byte
}

// Fetcher retrieves raw items for one tier of a source's cascade.
type Fetcher interface {
	Run(ctx context.Context, src registry.Source, tier registry.Tier) ([]Item, error)
}
