package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/parse"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// StandardOutcome is the result of running one standard's fallback
// cascade: the records that survived canonicalization, the tier that
// produced them, and a human-readable degradation note when the primary
// tier did not serve the request.
type StandardOutcome struct {
	Standard string
	Source   string
	Tier     registry.TierName
	Records  []proposal.Record
	Note     string
}

// Orchestrator walks a source's tier cascade until one tier yields
// records. Failures never escape: the final tier is always the seed
// list, which cannot fail.
type Orchestrator struct {
	registry *registry.Registry
	fetchers map[registry.Strategy]fetch.Fetcher
	parsers  map[registry.ParserTag]parse.Parser
	quota    *fetch.Quota
	canon    *proposal.Canonicalizer
}

func NewOrchestrator(reg *registry.Registry, fetchers map[registry.Strategy]fetch.Fetcher,
	parsers map[registry.ParserTag]parse.Parser, quota *fetch.Quota) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		fetchers: fetchers,
		parsers:  parsers,
		quota:    quota,
		canon:    proposal.NewCanonicalizer(),
	}
}

// FetchStandard runs the cascade for one standard. Once any tier fails
// with a rate-limit classification, the remaining API-backed tiers are
// skipped for this run; non-API tiers still get their attempt.
func (o *Orchestrator) FetchStandard(ctx context.Context, standard string, filter proposal.Status, limit int) (StandardOutcome, error) {
	src, err := o.registry.Get(standard)
	if err != nil {
		return StandardOutcome{}, err
	}

	outcome := StandardOutcome{Standard: src.Standard, Source: src.Name}
	rateLimited := false
	var lastErr error

	for _, tier := range src.Tiers {
		if tier.Strategy == registry.StrategySeed {
			outcome.Tier = tier.Name
			outcome.Records = o.canon.Run(seedCopy(src.Seed), filter, limit)
			outcome.Note = degradationNote(src.Standard, tier.Name, rateLimited, lastErr)
			return outcome, nil
		}

		if tier.UsesAPI() && (rateLimited || o.quota.Low()) {
			slog.Debug("Skipping API tier", "standard", src.Standard, "tier", tier.Name)
			rateLimited = true
			continue
		}

		records, err := o.runTier(ctx, src, tier)
		if err != nil {
			if fetch.KindOf(err) == fetch.KindRateLimit {
				rateLimited = true
			}
			lastErr = err
			slog.Debug("Tier failed", "standard", src.Standard, "tier", tier.Name, "error", err)
			continue
		}

		canonical := o.canon.Run(records, filter, limit)
		if len(canonical) == 0 {
			lastErr = fmt.Errorf("tier %s: no records after filtering", tier.Name)
			continue
		}

		outcome.Tier = tier.Name
		outcome.Records = canonical
		outcome.Note = degradationNote(src.Standard, tier.Name, rateLimited, nil)
		return outcome, nil
	}

	// Unreachable for registry-validated sources, which always end in a
	// seed tier.
	return outcome, fmt.Errorf("%s: cascade exhausted: %w", src.Standard, lastErr)
}

func (o *Orchestrator) runTier(ctx context.Context, src registry.Source, tier registry.Tier) ([]proposal.Record, error) {
	fetcher, ok := o.fetchers[tier.Strategy]
	if !ok {
		return nil, fmt.Errorf("no fetcher for strategy %q", tier.Strategy)
	}
	parser, ok := o.parsers[tier.Parser]
	if !ok {
		return nil, fmt.Errorf("no parser for tag %q", tier.Parser)
	}

	items, err := fetcher.Run(ctx, src, tier)
	if err != nil {
		return nil, err
	}

	records, parseErrors := parser.Run(ctx, src, items)
	for _, pe := range parseErrors {
		slog.Debug("Item skipped", "standard", src.Standard, "tier", tier.Name, "error", pe.Error())
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("tier %s: %d items, none parseable", tier.Name, len(items))
	}

	return records, nil
}

func seedCopy(seed []proposal.Record) []proposal.Record {
	out := make([]proposal.Record, len(seed))
	copy(out, seed)
	return out
}

func degradationNote(standard string, tier registry.TierName, rateLimited bool, lastErr error) string {
	if tier == registry.TierPrimary {
		return ""
	}

	reason := "primary source unavailable"
	if rateLimited {
		reason = "rate limited"
	}
	if tier == registry.TierFinalFallback {
		if lastErr != nil && fetch.KindOf(lastErr) == fetch.KindRateLimit {
			reason = "rate limited"
		}
		return fmt.Sprintf("%s: %s (served cached seed list)", standard, reason)
	}
	return fmt.Sprintf("%s: %s (served %s)", standard, reason, tier)
}
