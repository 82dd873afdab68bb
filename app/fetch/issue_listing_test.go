package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lysyi3m/prop-comb/app/registry"
)

func TestIssueListingStopsOnShortPage(t *testing.T) {
	var pagesServed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)

		// A single short page: fewer records than the page size.
		fmt.Fprint(w, `[
			{"number": 789, "title": "Proposal: Decrease the transaction fees", "state": "open", "html_url": "https://example.com/issues/789"},
			{"number": 785, "title": "TIP-7951: Precompile for secp256r1", "state": "open", "html_url": "https://example.com/issues/785"}
		]`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewIssueListingFetcher(client)

	items, err := fetcher.Run(context.Background(), registry.Source{Standard: "TIP"},
		registry.Tier{URL: server.URL})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(pagesServed) != 1 {
		t.Errorf("Expected 1 page request, got %d: %v", len(pagesServed), pagesServed)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Number != 789 {
		t.Errorf("Expected first item number 789, got %d", items[0].Number)
	}
	if !strings.Contains(string(items[0].Content), "Decrease the transaction fees") {
		t.Error("Item content should carry the raw issue JSON")
	}
}

func TestIssueListingRequestsDescendingCreationOrder(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		fmt.Fprint(w, `[{"number": 1, "title": "One", "state": "open", "html_url": "https://example.com/issues/1"}]`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewIssueListingFetcher(client)

	if _, err := fetcher.Run(context.Background(), registry.Source{Standard: "TIP"},
		registry.Tier{URL: server.URL}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, param := range []string{"state=all", "sort=created", "direction=desc"} {
		if !strings.Contains(query, param) {
			t.Errorf("Expected query to contain %q, got %q", param, query)
		}
	}
}

func TestIssueListingKeepsEarlierPagesOnLaterFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		// A full page forces a second page request.
		var sb strings.Builder
		sb.WriteString("[")
		for i := 0; i < issuesPerPage; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"number": %d, "title": "Proposal %d", "state": "open", "html_url": "https://example.com/issues/%d"}`,
				1000-i, 1000-i, 1000-i)
		}
		sb.WriteString("]")
		fmt.Fprint(w, sb.String())
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewIssueListingFetcher(client)

	items, err := fetcher.Run(context.Background(), registry.Source{Standard: "TIP"},
		registry.Tier{URL: server.URL})
	if err != nil {
		t.Fatalf("Expected partial result, got error: %v", err)
	}
	if len(items) != issuesPerPage {
		t.Errorf("Expected %d items from the first page, got %d", issuesPerPage, len(items))
	}
}

func TestIssueListingEmptyRepository(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewIssueListingFetcher(client)

	_, err := fetcher.Run(context.Background(), registry.Source{Standard: "TIP"},
		registry.Tier{URL: server.URL})
	if KindOf(err) != KindEmpty {
		t.Errorf("Expected KindEmpty for empty issue list, got %v", KindOf(err))
	}
}
