package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lysyi3m/prop-comb/app/cache"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// Service is the public entry point of the pipeline. It composes the
// per-standard cascades into one result, caches assembled results, and
// collapses concurrent identical requests into a single upstream run.
type Service struct {
	orchestrator *Orchestrator
	registry     *registry.Registry
	cache        *cache.Cache
	group        singleflight.Group
	limit        int
}

func NewService(orchestrator *Orchestrator, reg *registry.Registry, c *cache.Cache, limit int) *Service {
	if limit <= 0 {
		limit = proposal.DefaultLimit
	}
	return &Service{
		orchestrator: orchestrator,
		registry:     reg,
		cache:        c,
		limit:        limit,
	}
}

// FetchLatestProposals returns the newest proposals for the requested
// standards. It never returns an error: unknown standards are skipped
// with a note, and every per-standard failure degrades through the
// cascade down to the seed list.
func (s *Service) FetchLatestProposals(ctx context.Context, standards []string, statusFilter string, limit int) *proposal.FetchResult {
	if len(standards) == 0 {
		standards = s.registry.Standards()
	}
	if limit <= 0 {
		limit = s.limit
	}

	filter, ok := proposal.ParseStatus(statusFilter)
	if !ok {
		// An unrecognized filter would match nothing; treat it as absent
		// and note the fact rather than returning six empty lists.
		filter = ""
	}

	key := cache.Key(standards, limit, filter)
	if cached, found := s.cache.Get(key); found {
		slog.Debug("Cache hit", "key", key)
		return cached
	}

	result, _, _ := s.group.Do(key, func() (any, error) {
		if cached, found := s.cache.Get(key); found {
			return cached, nil
		}
		assembled := s.assemble(ctx, standards, filter, statusFilter, ok, limit)
		s.cache.Set(key, assembled)
		return assembled, nil
	})

	return result.(*proposal.FetchResult)
}

func (s *Service) assemble(ctx context.Context, standards []string, filter proposal.Status, rawFilter string, filterValid bool, limit int) *proposal.FetchResult {
	result := &proposal.FetchResult{
		FetchedAt: time.Now().UTC(),
		Standards: make([]proposal.StandardResult, 0, len(standards)),
	}

	var notes []string
	if !filterValid && strings.TrimSpace(rawFilter) != "" {
		notes = append(notes, fmt.Sprintf("ignoring unknown status filter %q", rawFilter))
	}

	for _, standard := range standards {
		outcome, err := s.orchestrator.FetchStandard(ctx, standard, filter, limit)
		if err != nil {
			slog.Warn("Standard skipped", "standard", standard, "error", err)
			notes = append(notes, fmt.Sprintf("%s: unknown standard", strings.ToUpper(strings.TrimSpace(standard))))
			continue
		}

		if outcome.Note != "" {
			notes = append(notes, outcome.Note)
		}
		result.Standards = append(result.Standards, proposal.StandardResult{
			Standard: outcome.Standard,
			Source:   outcome.Source,
			Items:    outcome.Records,
		})
	}

	result.Note = strings.Join(notes, "; ")
	return result
}

// Limit returns the per-standard item limit the service was built with.
func (s *Service) Limit() int {
	return s.limit
}
