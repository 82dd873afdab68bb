package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/lysyi3m/prop-comb/app/registry"
)

const (
	// maxListedFiles bounds the per-item content fetch phase after a
	// listing call; only the highest-numbered files are retrieved.
	maxListedFiles = 30

	minWorkers = 4
	maxWorkers = 6
)

// FileListingFetcher lists files in a remote content tree, filters by the
// source's filename pattern and retrieves each matching file's content
// through a bounded worker pool.
type FileListingFetcher struct {
	client  *Client
	workers int
}

func NewFileListingFetcher(client *Client, workers int) *FileListingFetcher {
	if workers < minWorkers {
		workers = minWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &FileListingFetcher{client: client, workers: workers}
}

type fileEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
	HTMLURL     string `json:"html_url"`
}

func (f *FileListingFetcher) Run(ctx context.Context, src registry.Source, tier registry.Tier) ([]Item, error) {
	pattern := src.Pattern()
	if pattern == nil {
		return nil, fmt.Errorf("source %s has no file pattern", src.Standard)
	}

	var entries []fileEntry
	if err := f.client.GetJSON(ctx, tier.URL, &entries); err != nil {
		return nil, err
	}

	matching := make([]Item, 0, len(entries))
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		// Content is filled in by the worker pool below.
		matching = append(matching, Item{
			Name:   entry.Name,
			URL:    entry.HTMLURL,
			Number: number,
		})
	}

	if len(matching) == 0 {
		return nil, emptyError(tier.URL)
	}

	// Higher numbers are newer; only those are worth the per-file calls.
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].Number > matching[j].Number
	})
	if len(matching) > maxListedFiles {
		matching = matching[:maxListedFiles]
	}

	downloadURLs := make(map[string]string, len(entries))
	for _, entry := range entries {
		downloadURLs[entry.Name] = entry.DownloadURL
	}

	items := f.fetchContents(ctx, matching, downloadURLs)
	if len(items) == 0 {
		return nil, emptyError(tier.URL)
	}

	return items, nil
}

// fetchContents runs the second, parallel stage: retrieving each matched
// file's body with a bounded worker pool and a courtesy pause per call.
func (f *FileListingFetcher) fetchContents(ctx context.Context, matching []Item, downloadURLs map[string]string) []Item {
	jobs := make(chan Item)
	var (
		mu    sync.Mutex
		items []Item
		wg    sync.WaitGroup
	)

	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				url := downloadURLs[item.Name]
				if url == "" {
					continue
				}

				content, err := f.client.Get(ctx, url)
				if err != nil {
					slog.Debug("File content fetch failed", "file", item.Name, "error", err)
					f.client.Pause(ctx)
					continue
				}

				item.Content = content
				mu.Lock()
				items = append(items, item)
				mu.Unlock()

				f.client.Pause(ctx)
			}
		}()
	}

	for _, item := range matching {
		select {
		case jobs <- item:
		case <-ctx.Done():
			// Deadline exceeded: abandon the remaining files and let
			// the cascade move on with whatever was collected.
			close(jobs)
			wg.Wait()
			return items
		}
	}
	close(jobs)
	wg.Wait()

	return items
}
