package parse

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// maxTitleRecoveries caps how many proposal pages the parser will fetch
// to recover a missing title. Listing pages can reference hundreds of
// proposals; following every link would hammer the upstream.
const maxTitleRecoveries = 5

var (
	issuePathNumber = regexp.MustCompile(`/issues/(\d+)(?:$|[/?#])`)
	pullPathNumber  = regexp.MustCompile(`/pull/(\d+)(?:$|[/?#])`)
	trailingNumber  = regexp.MustCompile(`/(\d+)/?$`)

	headingWords = map[string]struct{}{
		"abstract": {}, "motivation": {}, "specification": {},
		"rationale": {}, "copyright": {}, "security considerations": {},
	}
)

// HeuristicHTMLParser scrapes proposal references out of a rendered
// listing page. It works off anchors alone: any link whose href matches
// the source's file pattern, an issue or pull path, or a bare trailing
// number is treated as a proposal reference. Structure beyond anchors is
// deliberately ignored since the upstream pages share no common layout.
type HeuristicHTMLParser struct {
	titles *PageTitles
}

func NewHeuristicHTMLParser(titles *PageTitles) *HeuristicHTMLParser {
	return &HeuristicHTMLParser{titles: titles}
}

func (p *HeuristicHTMLParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
	var records []proposal.Record
	var parseErrors []ParseError

	seen := make(map[int]bool)
	recoveries := 0

	for _, item := range items {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(item.Content))
		if err != nil {
			parseErrors = append(parseErrors, ParseError{Item: item.Name, Reason: fmt.Sprintf("parse html: %s", err)})
			continue
		}

		base, _ := url.Parse(item.URL)

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			number := extractAnchorNumber(src, href)
			if number == 0 || seen[number] {
				return
			}

			link := resolveHref(base, href)
			title := strings.TrimSpace(sel.Text())

			if !usableAnchorTitle(title) {
				title = ""
				if p.titles != nil && recoveries < maxTitleRecoveries {
					recoveries++
					recovered, err := p.titles.Recover(ctx, link)
					if err != nil {
						slog.Debug("Title recovery failed", "url", link, "error", err)
					} else {
						title = recovered
					}
				}
			}
			if title == "" {
				title = fmt.Sprintf("%s-%d", strings.ToUpper(src.Standard), number)
			}

			seen[number] = true
			records = append(records, proposal.Record{
				Number:  number,
				Title:   title,
				Status:  proposal.StatusUnknown,
				Type:    "Unknown",
				Created: proposal.CreatedUnknown,
				Link:    link,
				Summary: proposal.Summarize(title),
			})
		})
	}

	if len(records) == 0 && len(parseErrors) == 0 {
		parseErrors = append(parseErrors, ParseError{Item: src.Standard, Reason: "no proposal links found"})
	}

	return records, parseErrors
}

// extractAnchorNumber tries the source's own file pattern first, then
// the common repository path shapes.
func extractAnchorNumber(src registry.Source, href string) int {
	if pattern := src.Pattern(); pattern != nil {
		if m := pattern.FindStringSubmatch(href); len(m) > 1 {
			return atoiOrZero(m[1])
		}
	}
	for _, pattern := range []*regexp.Regexp{issuePathNumber, pullPathNumber, trailingNumber} {
		if m := pattern.FindStringSubmatch(href); m != nil {
			return atoiOrZero(m[1])
		}
	}
	return 0
}

func usableAnchorTitle(title string) bool {
	if !meaningfulTitle(title) {
		return false
	}
	_, heading := headingWords[strings.ToLower(title)]
	return !heading
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
