package parse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// FrontmatterParser extracts key/value metadata from a delimited header
// block at the top of a proposal file. Both triple-dash and fenced-block
// delimiters occur across the tracked repositories, so it tries both.
type FrontmatterParser struct{}

func NewFrontmatterParser() *FrontmatterParser {
	return &FrontmatterParser{}
}

func (p *FrontmatterParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
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

func (p *FrontmatterParser) parseItem(src registry.Source, item fetch.Item) (proposal.Record, error) {
	fields, ok := extractFrontmatter(string(item.Content))
	if !ok {
		return proposal.Record{}, fmt.Errorf("no frontmatter block found")
	}

	number := item.Number
	if number == 0 {
		// Some repositories carry the number as a frontmatter key named
		// after the standard ("eip: 7702").
		if v, ok := fields[strings.ToLower(src.Standard)]; ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				number = n
			}
		}
	}
	if number == 0 {
		return proposal.Record{}, fmt.Errorf("no proposal number")
	}

	title := strings.Trim(fields["title"], `"' `)
	if title == "" {
		return proposal.Record{}, fmt.Errorf("no title")
	}

	created := strings.TrimSpace(fields["created"])
	if created == "" {
		created = proposal.CreatedUnknown
	}

	rawStatus := strings.TrimSpace(fields["status"])
	recordType := proposal.TitleCase(fields["type"])
	if recordType == "" {
		recordType = "Unknown"
	}

	link := item.URL
	if strings.Contains(src.LinkTemplate, "%") {
		link = fmt.Sprintf(src.LinkTemplate, number)
	}

	return proposal.Record{
		Number:    number,
		Title:     title,
		RawStatus: rawStatus,
		Status:    proposal.BucketStatus(rawStatus),
		Type:      recordType,
		Created:   created,
		Link:      link,
		Summary:   proposal.Summarize(title),
	}, nil
}

// extractFrontmatter returns the lowercased key/value pairs of the
// leading delimited block, trying "---" first and a "```" fence second.
func extractFrontmatter(content string) (map[string]string, bool) {
	for _, delim := range []string{"---", "```"} {
		if block, ok := delimitedBlock(content, delim); ok {
			fields := keyValueLines(block)
			if len(fields) > 0 {
				return fields, true
			}
		}
	}
	return nil, false
}

func delimitedBlock(content, delim string) (string, bool) {
	trimmed := strings.TrimLeft(content, "\n\r \t")
	if !strings.HasPrefix(trimmed, delim) {
		return "", false
	}

	rest := trimmed[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func keyValueLines(block string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		switch key {
		case "title", "status", "author", "authors", "created", "date", "type", "category", "eip", "bip", "tip", "bep", "sup", "lip":
			if key == "date" {
				key = "created"
			}
			if key == "authors" {
				key = "author"
			}
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}
