package parse

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// CommitFeedParser recovers proposal numbers from a repository's commits
// Atom feed. Commit subjects like "Update EIP-7702: clarify delegation"
// name the proposal they touch; the text after the colon stands in for a
// title. Commit timestamps describe the commit, not the proposal, so
// Created stays unknown.
type CommitFeedParser struct {
	feedParser *gofeed.Parser
}

func NewCommitFeedParser() *CommitFeedParser {
	return &CommitFeedParser{feedParser: gofeed.NewParser()}
}

func (p *CommitFeedParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
	var records []proposal.Record
	var parseErrors []ParseError

	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(src.Standard) + `[-\s]?(\d+)\b`)
	if err != nil {
		parseErrors = append(parseErrors, ParseError{Item: src.Standard, Reason: err.Error()})
		return nil, parseErrors
	}

	for _, item := range items {
		feed, err := p.feedParser.Parse(bytes.NewReader(item.Content))
		if err != nil {
			parseErrors = append(parseErrors, ParseError{Item: item.Name, Reason: fmt.Sprintf("parse feed: %s", err)})
			continue
		}

		for _, entry := range feed.Items {
			record, ok := p.parseEntry(src, pattern, entry.Title)
			if ok {
				records = append(records, record)
			}
		}
	}

	if len(records) == 0 && len(parseErrors) == 0 {
		parseErrors = append(parseErrors, ParseError{Item: src.Standard, Reason: "no proposal references in feed"})
	}

	return records, parseErrors
}

func (p *CommitFeedParser) parseEntry(src registry.Source, pattern *regexp.Regexp, subject string) (proposal.Record, bool) {
	subject = strings.TrimSpace(subject)

	m := pattern.FindStringSubmatch(subject)
	if m == nil {
		return proposal.Record{}, false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil || number == 0 {
		return proposal.Record{}, false
	}

	title := subject
	if _, after, found := strings.Cut(subject, ":"); found {
		after = strings.TrimSpace(after)
		if meaningfulTitle(after) {
			title = after
		}
	}
	if !meaningfulTitle(title) {
		return proposal.Record{}, false
	}

	link := src.URL
	if strings.Contains(src.LinkTemplate, "%") {
		link = fmt.Sprintf(src.LinkTemplate, number)
	}

	return proposal.Record{
		Number:  number,
		Title:   title,
		Status:  proposal.StatusUnknown,
		Type:    "Unknown",
		Created: proposal.CreatedUnknown,
		Link:    link,
		Summary: proposal.Summarize(title),
	}, true
}
