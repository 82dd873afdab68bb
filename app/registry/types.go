package registry

import (
	"regexp"

	"github.com/lysyi3m/prop-comb/app/proposal"
)

// Strategy selects the retrieval mechanism for a tier.
type Strategy string

const (
	StrategyFileListing  Strategy = "file_listing"
	StrategyIssueListing Strategy = "issue_listing"
	StrategyDirectPage   Strategy = "direct_page"
	StrategyCommitFeed   Strategy = "commit_feed"
	StrategySeed         Strategy = "seed"
)

// ParserTag selects the format parser for a tier's raw items.
type ParserTag string

const (
	ParserFrontmatter ParserTag = "frontmatter"
	ParserWiki        ParserTag = "wiki"
	ParserTableRow    ParserTag = "table_row"
	ParserHTML        ParserTag = "html"
	ParserIssue       ParserTag = "issue"
	ParserCommitFeed  ParserTag = "commit_feed"
	ParserNone        ParserTag = ""
)

// TierName identifies a stage of the fallback cascade.
type TierName string

const (
	TierPrimary            TierName = "primary"
	TierHTMLFallback       TierName = "html_fallback"
	TierAggressiveFallback TierName = "aggressive_fallback"
	TierFinalFallback      TierName = "final_fallback"
)

// Tier is one (fetcher, parser) stage attempted for a standard. The final
// tier of every source uses StrategySeed and performs no network I/O.
type Tier struct {
	Name     TierName  `yaml:"name"`
	Strategy Strategy  `yaml:"strategy"`
	Parser   ParserTag `yaml:"parser"`
	URL      string    `yaml:"url"`
}

// UsesAPI reports whether the tier hits a quota-limited API endpoint.
func (t Tier) UsesAPI() bool {
	return t.Strategy == StrategyFileListing || t.Strategy == StrategyIssueListing
}

// Source describes one standard's upstream locations and fetch cascade.
// Sources are immutable after registry construction.
type Source struct {
	Standard     string
	Name         string
	URL          string // canonical human-facing base URL
	APIURL       string // machine endpoint for the primary strategy
	LinkTemplate string // fmt template with one %d verb
	FilePattern  string // regexp with the number as first capture group
	Tiers        []Tier
	Seed         []proposal.Record

	pattern *regexp.Regexp
}

// Pattern returns the compiled file/number pattern. Registry-built
// sources carry a precompiled pattern; hand-built ones compile on demand
// and return nil for an empty or invalid FilePattern.
func (s Source) Pattern() *regexp.Regexp {
	if s.pattern != nil {
		return s.pattern
	}
	if s.FilePattern == "" {
		return nil
	}
	re, err := regexp.Compile(s.FilePattern)
	if err != nil {
		return nil
	}
	return re
}
