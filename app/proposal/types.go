package proposal

import (
	"strings"
	"time"
)

// CreatedUnknown is the sentinel for creation dates that could not be
// determined from any upstream source. Dates are never synthesized.
const CreatedUnknown = "unknown"

const summaryWordLimit = 20

// Record is the canonical representation of one improvement proposal,
// independent of the upstream encoding it was extracted from.
type Record struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Status  Status `json:"status"`
	Type    string `json:"type"`
	Created string `json:"created"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
	Seed    bool   `json:"seed,omitempty"`

	// RawStatus keeps the upstream spelling for diagnostics; the JSON
	// shape only exposes the canonical bucket.
	RawStatus string `json:"-"`
}

// FetchResult is the shape returned by Service.FetchLatestProposals.
type FetchResult struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Note      string           `json:"note,omitempty"`
	Standards []StandardResult `json:"standards"`
}

type StandardResult struct {
	Standard string   `json:"standard"`
	Source   string   `json:"source"`
	Items    []Record `json:"items"`
}

// Summarize derives a short summary from a title, capped at 20 words.
func Summarize(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "No title available"
	}

	words := strings.Fields(title)
	if len(words) <= summaryWordLimit {
		return title
	}

	return strings.Join(words[:summaryWordLimit], " ") + "..."
}
