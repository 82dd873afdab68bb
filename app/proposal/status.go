package proposal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is a canonical lifecycle bucket. The set is closed: raw upstream
// spellings are mapped through statusBuckets and anything unmapped lands in
// StatusUnknown rather than being guessed into a near-match.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusFinal     Status = "final"
	StatusWithdrawn Status = "withdrawn"
	StatusLiving    Status = "living"
	StatusStagnant  Status = "stagnant"
	StatusUnknown   Status = "unknown"
)

// statusBuckets maps lowercased upstream spellings observed across the
// tracked repositories (EIP/BIP/TIP/BEP/SUP/LIP) to canonical buckets.
var statusBuckets = map[string]Status{
	"draft":     StatusDraft,
	"open":      StatusDraft,
	"idea":      StatusDraft,
	"proposed":  StatusDraft,
	"candidate": StatusDraft,

	"review":            StatusReview,
	"last call":         StatusReview,
	"call for comments": StatusReview,
	"in progress":       StatusReview,

	"final":      StatusFinal,
	"active":     StatusFinal,
	"accepted":   StatusFinal,
	"enabled":    StatusFinal,
	"merged":     StatusFinal,
	"production": StatusFinal,

	"withdrawn":  StatusWithdrawn,
	"rejected":   StatusWithdrawn,
	"replaced":   StatusWithdrawn,
	"superseded": StatusWithdrawn,
	"obsolete":   StatusWithdrawn,
	"closed":     StatusWithdrawn,

	"living": StatusLiving,

	"stagnant": StatusStagnant,
	"deferred": StatusStagnant,
	"dormant":  StatusStagnant,
}

// BucketStatus maps a raw status string to its canonical bucket.
func BucketStatus(raw string) Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	if bucket, ok := statusBuckets[key]; ok {
		return bucket
	}
	return StatusUnknown
}

// ParseStatus validates a caller-supplied canonical bucket name, for use
// with the status filter query parameter.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, true
	case StatusReview:
		return StatusReview, true
	case StatusFinal:
		return StatusFinal, true
	case StatusWithdrawn:
		return StatusWithdrawn, true
	case StatusLiving:
		return StatusLiving, true
	case StatusStagnant:
		return StatusStagnant, true
	case StatusUnknown:
		return StatusUnknown, true
	}
	return "", false
}

var titleCaser = cases.Title(language.English)

// TitleCase normalizes the display casing of raw metadata values such as
// type ("standards track" -> "Standards Track").
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return titleCaser.String(strings.ToLower(s))
}
