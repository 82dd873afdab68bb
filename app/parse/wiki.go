package parse

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

// metadataScanLines bounds how deep into a wiki page the metadata
// preamble is expected to sit.
const metadataScanLines = 30

var (
	wikiLinkPipe = regexp.MustCompile(`\[\[([^\]|]+)(\|[^\]]*)?\]\]`) // [[target|text]] -> target
	wikiExtLink  = regexp.MustCompile(`\[(\S+)\s+([^\]]+)\]`)         // [url text] -> text
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	wikiEmphasis = regexp.MustCompile(`'{2,}`) // ''italic'' / '''bold'''
)

// WikiMetadataParser scans the first ~30 lines of a MediaWiki-formatted
// proposal for "Key: value" metadata, with looser punctuation rules than
// frontmatter and inline markup stripped from values.
type WikiMetadataParser struct{}

func NewWikiMetadataParser() *WikiMetadataParser {
	return &WikiMetadataParser{}
}

func (p *WikiMetadataParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
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

func (p *WikiMetadataParser) parseItem(src registry.Source, item fetch.Item) (proposal.Record, error) {
	fields := p.scanMetadata(string(item.Content))

	number := item.Number
	if number == 0 {
		if v, ok := fields[strings.ToLower(src.Standard)]; ok {
			if m := regexp.MustCompile(`\d+`).FindString(v); m != "" {
				number, _ = strconv.Atoi(m)
			}
		}
	}
	if number == 0 {
		return proposal.Record{}, fmt.Errorf("no proposal number")
	}

	title := fields["title"]
	if title == "" {
		return proposal.Record{}, fmt.Errorf("no title")
	}

	created := fields["created"]
	if created == "" {
		created = proposal.CreatedUnknown
	}

	rawStatus := fields["status"]
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

func (p *WikiMetadataParser) scanMetadata(content string) map[string]string {
	fields := make(map[string]string)
	lines := strings.Split(content, "\n")
	if len(lines) > metadataScanLines {
		lines = lines[:metadataScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "==") || strings.HasPrefix(line, "<!--") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = cleanWikiValue(value)

		switch key {
		case "bip", "lip", "tip":
			fields[key] = value
		case "title":
			fields["title"] = value
		case "status":
			fields["status"] = value
		case "author", "authors":
			fields["author"] = value
		case "created", "date":
			fields["created"] = value
		case "type":
			fields["type"] = value
		case "layer":
			fields["layer"] = value
		}
	}

	return fields
}

func cleanWikiValue(value string) string {
	value = wikiLinkPipe.ReplaceAllString(value, "$1")
	value = wikiExtLink.ReplaceAllString(value, "$2")
	value = htmlTag.ReplaceAllString(value, "")
	value = wikiEmphasis.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}
