package proposal

import "sort"

// DefaultLimit is the number of items returned per standard when the
// caller does not ask for more.
const DefaultLimit = 5

type Canonicalizer struct{}

func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{}
}

// Run deduplicates, buckets statuses, sorts and truncates a raw record set.
// filter is a canonical bucket, or empty for no filtering. The returned
// slice is always a fresh allocation.
func (c *Canonicalizer) Run(records []Record, filter Status, limit int) []Record {
	if limit <= 0 {
		limit = DefaultLimit
	}

	deduped := c.dedupe(records)

	for i := range deduped {
		if deduped[i].Status == "" {
			deduped[i].Status = BucketStatus(deduped[i].RawStatus)
		}
	}

	// Higher number = newer. Numbers are unique after dedup, so no
	// secondary key is needed.
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Number > deduped[j].Number
	})

	result := make([]Record, 0, limit)
	for _, r := range deduped {
		if filter != "" && r.Status != filter {
			continue
		}
		result = append(result, r)
		if len(result) == limit {
			break
		}
	}

	return result
}

// dedupe collapses records sharing a number, keeping the one with the
// longer title. Ties keep the first occurrence.
func (c *Canonicalizer) dedupe(records []Record) []Record {
	byNumber := make(map[int]int, len(records))
	deduped := make([]Record, 0, len(records))

	for _, r := range records {
		idx, seen := byNumber[r.Number]
		if !seen {
			byNumber[r.Number] = len(deduped)
			deduped = append(deduped, r)
			continue
		}
		if len(r.Title) > len(deduped[idx].Title) {
			deduped[idx] = r
		}
	}

	return deduped
}
