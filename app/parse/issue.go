package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

var issueTitleNumber = regexp.MustCompile(`(?i)^\s*[A-Z]{2,4}[-\s]?(\d+)\b`)

type issuePayload struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	State       string          `json:"state"`
	CreatedAt   string          `json:"created_at"`
	HTMLURL     string          `json:"html_url"`
	PullRequest json.RawMessage `json:"pull_request"`
}

// IssueParser decodes proposals tracked as repository issues. The issue
// number doubles as the proposal number unless the title carries an
// explicit "TIP-789" style identifier, which takes precedence.
type IssueParser struct{}

func NewIssueParser() *IssueParser {
	return &IssueParser{}
}

func (p *IssueParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
	records := make([]proposal.Record, 0, len(items))
	var parseErrors []ParseError

	for _, item := range items {
		record, err := p.parseItem(src, item)
		if err != nil {
			parseErrors = append(parseErrors, ParseError{Item: item.Name, Reason: err.Error()})
			continue
		}
		records = append(records, record)
	}

	return records, parseErrors
}

func (p *IssueParser) parseItem(src registry.Source, item fetch.Item) (proposal.Record, error) {
	var payload issuePayload
	if err := json.Unmarshal(item.Content, &payload); err != nil {
		return proposal.Record{}, fmt.Errorf("decode issue: %w", err)
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return proposal.Record{}, fmt.Errorf("no title")
	}

	number := payload.Number
	if m := issueTitleNumber.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			number = n
		}
	}
	if number == 0 {
		return proposal.Record{}, fmt.Errorf("no proposal number")
	}

	created := proposal.CreatedUnknown
	if len(payload.CreatedAt) >= 10 {
		created = payload.CreatedAt[:10]
	}

	recordType := "Issue"
	if payload.PullRequest != nil {
		recordType = "Pull Request"
	}

	link := payload.HTMLURL
	if link == "" {
		link = item.URL
	}

	return proposal.Record{
		Number:    number,
		Title:     title,
		RawStatus: payload.State,
		Status:    proposal.BucketStatus(payload.State),
		Type:      recordType,
		Created:   created,
		Link:      link,
		Summary:   proposal.Summarize(title),
	}, nil
}
