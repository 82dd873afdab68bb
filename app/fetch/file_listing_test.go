package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/lysyi3m/prop-comb/app/registry"
)

func testSource(pattern string) registry.Source {
	return registry.Source{
		Standard:     "EIP",
		Name:         "Ethereum Improvement Proposals",
		LinkTemplate: "https://eips.example.com/%d",
		FilePattern:  pattern,
	}
}

func TestFileListingFetchesNewestMatchingFiles(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	listing := []fileEntry{
		{Name: "README.md"},
		{Name: "eip-1.md"},
		{Name: "eip-7702.md"},
		{Name: "eip-4844.md"},
		{Name: "eip-template.md"},
	}
	for i := range listing {
		if listing[i].Name != "README.md" && listing[i].Name != "eip-template.md" {
			listing[i].DownloadURL = server.URL + "/raw/" + listing[i].Name
			listing[i].HTMLURL = server.URL + "/blob/" + listing[i].Name
		}
	}

	mux.HandleFunc("/contents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listing)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "content of %s", r.URL.Path)
	})

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewFileListingFetcher(client, 4)

	items, err := fetcher.Run(context.Background(), testSource(`eip-(\d+)\.md`),
		registry.Tier{Name: registry.TierPrimary, Strategy: registry.StrategyFileListing, URL: server.URL + "/contents"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	numbers := make([]int, 0, len(items))
	for _, item := range items {
		numbers = append(numbers, item.Number)
		if len(item.Content) == 0 {
			t.Errorf("Item %s has empty content", item.Name)
		}
	}
	sort.Ints(numbers)
	if numbers[0] != 1 || numbers[1] != 4844 || numbers[2] != 7702 {
		t.Errorf("Expected numbers [1 4844 7702], got %v", numbers)
	}
}

func TestFileListingNoMatchesIsEmptyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]fileEntry{{Name: "README.md"}, {Name: "LICENSE"}})
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewFileListingFetcher(client, 4)

	_, err := fetcher.Run(context.Background(), testSource(`eip-(\d+)\.md`),
		registry.Tier{URL: server.URL})
	if err == nil {
		t.Fatal("Expected error for listing with no matching files")
	}
	if KindOf(err) != KindEmpty {
		t.Errorf("Expected KindEmpty, got %v", KindOf(err))
	}
}

func TestFileListingPropagatesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client(), NewQuota(), Options{Pause: 1})
	fetcher := NewFileListingFetcher(client, 4)

	_, err := fetcher.Run(context.Background(), testSource(`eip-(\d+)\.md`),
		registry.Tier{URL: server.URL})
	if KindOf(err) != KindRateLimit {
		t.Errorf("Expected KindRateLimit, got %v", KindOf(err))
	}
}

func TestFileListingWorkerClamp(t *testing.T) {
	client := NewClient(nil, NewQuota(), Options{})

	if f := NewFileListingFetcher(client, 1); f.workers != minWorkers {
		t.Errorf("Expected workers clamped up to %d, got %d", minWorkers, f.workers)
	}
	if f := NewFileListingFetcher(client, 20); f.workers != maxWorkers {
		t.Errorf("Expected workers clamped down to %d, got %d", maxWorkers, f.workers)
	}
	if f := NewFileListingFetcher(client, 5); f.workers != 5 {
		t.Errorf("Expected workers 5, got %d", f.workers)
	}
}
