package parse

import (
	"context"
	"strings"
	"testing"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

var bipSource = registry.Source{
	Standard:     "BIP",
	Name:         "Bitcoin Improvement Proposals",
	LinkTemplate: "https://bips.dev/%d",
	FilePattern:  `bip-(\d+)\.mediawiki`,
}

func TestWikiMetadata(t *testing.T) {
	content := `<pre>
  BIP: 443
  Title: OP_CHECKCONTRACTVERIFY
  Author: Salvatore Ingala
  Status: Draft
  Type: Standards Track
  Created: 2025-02-25
</pre>

==Abstract==
Covenant opcode.
`

	parser := NewWikiMetadataParser()
	records, parseErrors := parser.Run(context.Background(), bipSource,
		[]fetch.Item{{Name: "bip-0443.mediawiki", Number: 443, Content: []byte(content)}})

	if len(parseErrors) != 0 {
		t.Fatalf("Unexpected parse errors: %v", parseErrors)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Number != 443 {
		t.Errorf("Expected number 443, got %d", r.Number)
	}
	if r.Title != "OP_CHECKCONTRACTVERIFY" {
		t.Errorf("Expected title 'OP_CHECKCONTRACTVERIFY', got %q", r.Title)
	}
	if r.Status != proposal.StatusDraft {
		t.Errorf("Expected status draft, got %q", r.Status)
	}
	if r.Created != "2025-02-25" {
		t.Errorf("Expected created 2025-02-25, got %q", r.Created)
	}
	if r.Link != "https://bips.dev/443" {
		t.Errorf("Expected templated link, got %q", r.Link)
	}
}

func TestWikiMarkupStripping(t *testing.T) {
	content := `Title: ''Quantum'' [[Resistant]] [https://example.com Addresses]
Status: '''Draft'''
`

	parser := NewWikiMetadataParser()
	records, _ := parser.Run(context.Background(), bipSource,
		[]fetch.Item{{Name: "bip-0360.mediawiki", Number: 360, Content: []byte(content)}})

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Title != "Quantum Resistant Addresses" {
		t.Errorf("Expected markup stripped from title, got %q", records[0].Title)
	}
	if records[0].Status != proposal.StatusDraft {
		t.Errorf("Expected quoted status to bucket as draft, got %q", records[0].Status)
	}
}

func TestWikiMetadataScanIsBounded(t *testing.T) {
	// The title appears far past the metadata preamble; it must not be
	// picked up from body prose.
	content := "Status: Draft\n" + strings.Repeat("body line\n", 40) + "Title: Late title\n"

	parser := NewWikiMetadataParser()
	records, parseErrors := parser.Run(context.Background(), bipSource,
		[]fetch.Item{{Name: "bip-0001.mediawiki", Number: 1, Content: []byte(content)}})

	if len(records) != 0 {
		t.Errorf("Expected no records without a title in the preamble, got %d", len(records))
	}
	if len(parseErrors) != 1 {
		t.Errorf("Expected 1 parse error, got %d", len(parseErrors))
	}
}
