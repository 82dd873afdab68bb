package parse

import (
	"context"
	"testing"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

var eipSource = registry.Source{
	Standard:     "EIP",
	Name:         "Ethereum Improvement Proposals",
	LinkTemplate: "https://eips.ethereum.org/EIPS/eip-%d",
	FilePattern:  `eip-(\d+)\.md`,
}

func TestFrontmatterDashDelimited(t *testing.T) {
	content := `---
eip: 7702
title: Set EOA account code
status: Final
type: Standards Track
created: 2024-05-07
---

## Abstract
Body text here.
`

	parser := NewFrontmatterParser()
	records, parseErrors := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "eip-7702.md", Number: 7702, Content: []byte(content)}})

	if len(parseErrors) != 0 {
		t.Fatalf("Unexpected parse errors: %v", parseErrors)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Number != 7702 {
		t.Errorf("Expected number 7702, got %d", r.Number)
	}
	if r.Title != "Set EOA account code" {
		t.Errorf("Expected title 'Set EOA account code', got %q", r.Title)
	}
	if r.Status != proposal.StatusFinal {
		t.Errorf("Expected status final, got %q", r.Status)
	}
	if r.Type != "Standards Track" {
		t.Errorf("Expected type 'Standards Track', got %q", r.Type)
	}
	if r.Created != "2024-05-07" {
		t.Errorf("Expected created 2024-05-07, got %q", r.Created)
	}
	if r.Link != "https://eips.ethereum.org/EIPS/eip-7702" {
		t.Errorf("Expected templated link, got %q", r.Link)
	}
}

func TestFrontmatterFenceDelimited(t *testing.T) {
	content := "```\ntitle: Blob throughput increase\nstatus: Review\n```\nBody."

	parser := NewFrontmatterParser()
	records, parseErrors := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "eip-7691.md", Number: 7691, Content: []byte(content)}})

	if len(parseErrors) != 0 {
		t.Fatalf("Unexpected parse errors: %v", parseErrors)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Status != proposal.StatusReview {
		t.Errorf("Expected status review, got %q", records[0].Status)
	}
}

func TestFrontmatterNumberFromStandardKey(t *testing.T) {
	content := `---
eip: 4844
title: Shard Blob Transactions
status: Final
---
`

	parser := NewFrontmatterParser()
	records, _ := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "shard-blobs.md", Content: []byte(content)}})

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Number != 4844 {
		t.Errorf("Expected number from frontmatter key, got %d", records[0].Number)
	}
}

func TestFrontmatterMissingCreatedStaysUnknown(t *testing.T) {
	content := `---
title: Undated proposal
status: Draft
---
`

	parser := NewFrontmatterParser()
	records, _ := parser.Run(context.Background(), eipSource,
		[]fetch.Item{{Name: "eip-1.md", Number: 1, Content: []byte(content)}})

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Created != proposal.CreatedUnknown {
		t.Errorf("Expected created %q, got %q", proposal.CreatedUnknown, records[0].Created)
	}
}

func TestFrontmatterMalformedItemsAreSkipped(t *testing.T) {
	parser := NewFrontmatterParser()
	records, parseErrors := parser.Run(context.Background(), eipSource, []fetch.Item{
		{Name: "eip-2.md", Number: 2, Content: []byte("no frontmatter at all")},
		{Name: "eip-3.md", Number: 3, Content: []byte("---\ntitle: Valid one\nstatus: Draft\n---\n")},
	})

	if len(records) != 1 {
		t.Fatalf("Expected 1 record from the valid item, got %d", len(records))
	}
	if len(parseErrors) != 1 {
		t.Fatalf("Expected 1 parse error, got %d", len(parseErrors))
	}
	if parseErrors[0].Item != "eip-2.md" {
		t.Errorf("Expected parse error for eip-2.md, got %q", parseErrors[0].Item)
	}
}
