package parse

import (
	"context"
	"testing"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
)

const commitsAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>tag:github.com,2008:/ethereum/EIPs/commits/master</id>
  <title>Recent Commits to EIPs:master</title>
  <updated>2025-07-01T10:00:00Z</updated>
  <entry>
    <id>tag:github.com,2008:Grit::Commit/abc123</id>
    <title>Update EIP-7702: clarify delegation semantics</title>
    <updated>2025-07-01T10:00:00Z</updated>
  </entry>
  <entry>
    <id>tag:github.com,2008:Grit::Commit/def456</id>
    <title>Fix typos in README</title>
    <updated>2025-06-30T08:00:00Z</updated>
  </entry>
  <entry>
    <id>tag:github.com,2008:Grit::Commit/ghi789</id>
    <title>Add EIP 7594 network parameters</title>
    <updated>2025-06-29T12:00:00Z</updated>
  </entry>
</feed>`

func TestCommitFeedParser(t *testing.T) {
	parser := NewCommitFeedParser()
	records, parseErrors := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "commits.atom", Content: []byte(commitsAtom)}})

	if len(parseErrors) != 0 {
		t.Fatalf("Unexpected parse errors: %v", parseErrors)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Number != 7702 {
		t.Errorf("Expected number 7702, got %d", first.Number)
	}
	if first.Title != "clarify delegation semantics" {
		t.Errorf("Expected title after the colon, got %q", first.Title)
	}
	// Commit timestamps are not proposal creation dates.
	if first.Created != proposal.CreatedUnknown {
		t.Errorf("Expected created unknown, got %q", first.Created)
	}
	if first.Link != "https://eips.ethereum.org/EIPS/eip-7702" {
		t.Errorf("Expected templated link, got %q", first.Link)
	}

	if records[1].Number != 7594 {
		t.Errorf("Expected space-separated reference to parse as 7594, got %d", records[1].Number)
	}
}

func TestCommitFeedNoReferences(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>tag:example</id>
  <title>Commits</title>
  <updated>2025-07-01T10:00:00Z</updated>
  <entry><id>tag:a</id><title>Housekeeping</title><updated>2025-07-01T10:00:00Z</updated></entry>
</feed>`

	parser := NewCommitFeedParser()
	records, parseErrors := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "commits.atom", Content: []byte(feed)}})

	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
	if len(parseErrors) != 1 {
		t.Errorf("Expected a no-references parse error, got %d", len(parseErrors))
	}
}

func TestCommitFeedBadXML(t *testing.T) {
	parser := NewCommitFeedParser()
	records, parseErrors := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "broken.atom", Content: []byte("<feed><unclosed")}})

	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
	if len(parseErrors) == 0 {
		t.Error("Expected a parse error for malformed XML")
	}
}
