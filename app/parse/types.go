package parse

import (
	"context"
	"fmt"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// Parser extracts canonical records from raw items. Implementations are
// total over malformed input: a bad item yields a ParseError in the
// second return value and processing continues with the rest.
type Parser interface {
	Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError)
}

// ParseError records one skipped item. The cascade ignores these; they
// only surface in debug logging and diagnostics.
type ParseError struct {
	Item   string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Item, e.Reason)
}

// minTitleLength rejects anchor texts and headings that are not real
// titles ("443", "Abstract"-sized fragments, file extensions).
const minTitleLength = 4

func meaningfulTitle(title string) bool {
	if len(title) < minTitleLength {
		return false
	}
	for _, r := range title {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false // purely numeric
}
